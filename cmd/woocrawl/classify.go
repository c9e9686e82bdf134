package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/woocrawl"
)

// Run executes the classify command. The target is fetched when it is a
// URL and read from disk otherwise.
func (c *ClassifyCmd) Run(deps *Dependencies) error {
	pageURL := c.URL
	var body []byte
	if isURL(c.Target) {
		resp, err := deps.Fetcher.Fetch(deps.Ctx, c.Target)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", woocrawl.ErrorMessage(err))
			return err
		}
		body = resp.Body
		if pageURL == "" {
			pageURL = resp.URL
		}
	} else {
		data, err := os.ReadFile(c.Target)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", err)
			return err
		}
		body = data
		if pageURL == "" {
			pageURL = c.Target
		}
	}

	html := string(body)
	fmt.Fprintf(deps.Stdout, "page: %s\n", deps.Detector.Detect(html))
	fmt.Fprintf(deps.Stdout, "type: %s\n", deps.Classifier.Classify(pageURL, html))
	return nil
}
