package scraper

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// AttributeCodes are the transfer/breadth attribute columns of the attribute
// table, in column order
var AttributeCodes = []string{"2AR", "2SC", "HUM", "LSC", "SCI", "SOC", "UT"}

// CourseAttributes lists the attributes flagged "Y" for a course
type CourseAttributes struct {
	Code       string   `json:"courseCode"`
	Attributes []string `json:"attributes"`
}

// FetchAttributes downloads the course attribute table (all courses, all terms)
func (c *Client) FetchAttributes(ctx context.Context) ([]CourseAttributes, error) {
	url := c.endpoint(attributesPath)

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return ParseAttributes(resp.Body)
}

// ParseAttributes reads rows of the form: code, then one Y/blank cell per attribute
func ParseAttributes(r io.Reader) ([]CourseAttributes, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var out []CourseAttributes
	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < len(AttributeCodes)+1 {
			return
		}

		code := strings.TrimSpace(cells.Eq(0).Text())
		if !courseHeaderPattern.MatchString(code) {
			return
		}

		attrs := []string{}
		for n, attr := range AttributeCodes {
			if strings.TrimSpace(cells.Eq(n+1).Text()) == "Y" {
				attrs = append(attrs, attr)
			}
		}
		out = append(out, CourseAttributes{Code: code, Attributes: attrs})
	})

	return out, nil
}
