/*
Package questboard is a role-based task board that runs as a chat bot
workflow: one master identity manages groups and tasks, players join
groups through invite links and work the tasks.

The package keeps a per-user finite state machine over three inbound
event kinds (commands, button presses, free text) and answers every
event with a single render instruction: the text to show, the buttons
to offer and whether to edit the previous message in place.

# Usage

Create a Bot and feed it events from your transport:

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/questboard"
		"github.com/aretw0/questboard/pkg/domain"
	)

	func main() {
		bot, err := questboard.New("master-user-id")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		view, err := bot.HandleEvent(ctx, domain.Command{Name: "start", User: "master-user-id"})
		if err != nil {
			log.Fatal(err)
		}

		log.Println(view.Text)
		for _, b := range view.Buttons {
			log.Println("  [", b.Label, "] ->", b.Action.Callback())
		}
	}

For production use, wire a Redis backend with WithStore and the
adapters/redis package, and serve events over HTTP with the
adapters/httpapi handler.
*/
package questboard
