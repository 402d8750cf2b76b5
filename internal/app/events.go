package app

import (
	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/logger"
)

// subscribeEvents wires the app's own reactions to editor events.
func (a *App) subscribeEvents() {
	a.unsubscribe = append(a.unsubscribe,
		a.eventManager.Subscribe(event.TypeEditRejected, a.handleEditRejected),
		a.eventManager.Subscribe(event.TypeDocumentSaved, a.handleDocumentSaved),
		a.eventManager.Subscribe(event.TypeDocumentLoaded, a.handleDocumentLoaded),
	)
}

// handleEditRejected tells the user which rule protected the document.
func (a *App) handleEditRejected(e event.Event) bool {
	data, ok := e.Data.(event.EditRejectedData)
	if !ok {
		logger.Warnf("App: Received EditRejected event with unexpected data type: %T", e.Data)
		return false
	}
	a.statusBar.SetTemporaryMessage("%s rejected: %s", data.Op, data.Reason)
	return false
}

func (a *App) handleDocumentSaved(e event.Event) bool {
	if data, ok := e.Data.(event.DocumentSavedData); ok {
		logger.Debugf("App: saved %s", data.FilePath)
	}
	a.requestRedraw()
	return false
}

func (a *App) handleDocumentLoaded(e event.Event) bool {
	if data, ok := e.Data.(event.DocumentLoadedData); ok {
		a.statusBar.SetTemporaryMessage("Opened %s", data.FilePath)
	}
	a.requestRedraw()
	return false
}
