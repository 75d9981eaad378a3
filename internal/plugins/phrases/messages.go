package phrases

// StoreChangedMsg signals that the phrase store file changed on disk.
type StoreChangedMsg struct{}

// DraftGeneratedMsg carries the result of an AI phrase draft.
type DraftGeneratedMsg struct {
	Text string
	Err  error
}

// ExportedMsg reports the result of exporting the phrase list.
type ExportedMsg struct {
	Path string
	Err  error
}
