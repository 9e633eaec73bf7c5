package model

type RecordAdded struct {
	Collection string
	RecordID   string
	Key        string
}

func (e RecordAdded) Type() string { return "RecordAdded" }

type RecordUpdated struct {
	Collection string
	RecordID   string
	Key        string
}

func (e RecordUpdated) Type() string { return "RecordUpdated" }

type RecordRemoved struct {
	Collection string
	RecordID   string
}

func (e RecordRemoved) Type() string { return "RecordRemoved" }

type RecordToggled struct {
	Collection string
	RecordID   string
	Field      string
	Value      bool
}

func (e RecordToggled) Type() string { return "RecordToggled" }
