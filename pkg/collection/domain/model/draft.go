package model

// Draft holds unsaved input: free text for text and number fields, booleans
// for flags.
type Draft struct {
	Text  map[string]string
	Flags map[string]bool
}

func NewDraft() Draft {
	return Draft{Text: map[string]string{}, Flags: map[string]bool{}}
}

func (d *Draft) SetText(field, value string) {
	if d.Text == nil {
		d.Text = map[string]string{}
	}
	d.Text[field] = value
}

func (d *Draft) SetFlag(field string, value bool) {
	if d.Flags == nil {
		d.Flags = map[string]bool{}
	}
	d.Flags[field] = value
}

func (d Draft) Clone() Draft {
	out := NewDraft()
	for k, v := range d.Text {
		out.Text[k] = v
	}
	for k, v := range d.Flags {
		out.Flags[k] = v
	}
	return out
}

func (d Draft) IsEmpty() bool {
	return len(d.Text) == 0 && len(d.Flags) == 0
}
