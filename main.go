package main

import "github.com/LMSAIH/LangaraScraper/cmd"

func main() {
	cmd.Execute()
}
