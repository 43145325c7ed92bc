package main

import (
	"github.com/bornholm/searchbar/internal/command"
	"github.com/bornholm/searchbar/internal/command/config"
	"github.com/bornholm/searchbar/internal/command/index"
	"github.com/bornholm/searchbar/internal/command/query"
	"github.com/bornholm/searchbar/internal/command/serve"
)

var version = "dev"

func main() {
	command.Main(
		"searchbar",
		version,
		"Search bar over local and web search backends",
		serve.Serve(),
		query.Query(),
		index.Index(),
		config.Config(),
	)
}
