package app

import (
	"fmt"
	"io"

	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/input"
	"github.com/bethropolis/folio/internal/logger"
)

// ScriptResult is the outcome of a scripted run.
type ScriptResult struct {
	// Marked is the final document with the selection written in.
	Marked string
	// Rejections lists the reasons of rejected edits in order.
	Rejections []string
}

// RunScript loads a marked document, applies keys the way the playground
// would and returns the result. Each key is an action name understood by
// input.ParseScript, e.g. "backspace", "shift+left" or "type:abc".
func RunScript(opts Options, src string, keys []string) (ScriptResult, error) {
	opts.Headless = true
	opts.Screen = nil
	opts.FilePath = ""
	a, err := NewApp(opts)
	if err != nil {
		return ScriptResult{}, err
	}
	defer a.Close()

	var res ScriptResult
	unsub := a.eventManager.Subscribe(event.TypeEditRejected, func(e event.Event) bool {
		if data, ok := e.Data.(event.EditRejectedData); ok {
			res.Rejections = append(res.Rejections, data.Reason)
		}
		return false
	})
	defer unsub()

	if err := a.editor.LoadHTML(src); err != nil {
		return res, err
	}
	for _, key := range keys {
		evs, err := input.ParseScript(key)
		if err != nil {
			return res, err
		}
		for _, ev := range evs {
			logger.Debugf("Script: %v", ev.Action)
			a.modeHandler.HandleAction(ev)
			a.runPendingTasks()
		}
	}
	res.Marked = a.editor.Marked()
	return res, nil
}

// PrintScript runs RunScript and writes the marked result, then one
// "rejected: <reason>" line per rejection.
func PrintScript(w io.Writer, opts Options, src string, keys []string) error {
	res, err := RunScript(opts, src, keys)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, res.Marked); err != nil {
		return err
	}
	for _, r := range res.Rejections {
		if _, err := fmt.Fprintf(w, "rejected: %s\n", r); err != nil {
			return err
		}
	}
	return nil
}
