package main

import (
	"fmt"
	"friend-locator-service/internal/directions"
	"friend-locator-service/internal/domain"
	"friend-locator-service/internal/polyline"
	"os"

	"github.com/spf13/pflag"
)

// Decodes an encoded polyline, or the path of a saved directions response,
// and prints one point per line.
func main() {
	responsePath := pflag.StringP("response", "r", "", "directions JSON response file to extract the path from")
	pflag.Parse()

	var (
		path domain.Path
		err  error
	)

	switch {
	case *responsePath != "":
		body, readErr := os.ReadFile(*responsePath)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", *responsePath, readErr)
			os.Exit(1)
		}
		path, err = directions.ExtractPath(body)
	case pflag.NArg() == 1:
		path, err = polyline.Decode(pflag.Arg(0))
	default:
		fmt.Fprintln(os.Stderr, "Usage: polyline <encoded_polyline> | polyline --response <file.json>")
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for i, c := range path {
		fmt.Printf("%d\t%.5f\t%.5f\n", i, c.Lat, c.Lng)
	}
	fmt.Fprintf(os.Stderr, "%d points\n", len(path))
}
