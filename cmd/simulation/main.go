// Simulation client: drives the synchronization loop against a running
// server to eyeball debounce, id adoption and failure behavior.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/Srushti-17/Docolab/pkg/syncclient"

	"github.com/fatih/color"
)

func main() {
	baseURL := flag.String("base-url", "http://localhost:5000", "server base URL")
	token := flag.String("token", "", "bearer token for the simulated user")
	flag.Parse()

	if *token == "" {
		log.Fatal("a -token is required (issue one via the identity service)")
	}

	api := syncclient.NewAPIClient(*baseURL, *token)

	color.Cyan("=== Docolab sync loop simulation ===")

	loop := syncclient.New(
		syncclient.Document{Title: "Simulation Document"},
		api,
		nil,
		syncclient.WithDebounce(500*time.Millisecond),
	)
	defer loop.Close()

	// A typing burst: only the last edit should persist.
	for _, content := range []string{"H", "He", "Hel", "Hell", "Hello"} {
		loop.Edit(content)
		color.White("edit -> %q (state=%s)", content, loop.State())
		time.Sleep(50 * time.Millisecond)
	}

	color.Yellow("waiting for debounce...")
	time.Sleep(time.Second)

	doc := loop.Document()
	if doc.Id == "" {
		color.Red("FAIL: document was not assigned an id (err=%v)", loop.Err())
		return
	}
	color.Green("saved: id=%s state=%s", doc.Id, loop.State())

	// Edits after the first save address the server-assigned id.
	loop.Edit("Hello, world")
	time.Sleep(time.Second)

	if err := loop.Err(); err != nil {
		color.Red("FAIL: second save errored: %v", err)
		return
	}
	color.Green("second save ok: state=%s", loop.State())

	// Explicit save path.
	loop.Edit("Hello, world!")
	if err := loop.Save(context.Background()); err != nil {
		color.Red("FAIL: explicit save errored: %v", err)
		return
	}
	color.Green("explicit save ok: state=%s", loop.State())

	color.Cyan("=== simulation complete ===")
}
