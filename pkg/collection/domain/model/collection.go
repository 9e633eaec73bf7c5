package model

// Collection is an insertion-ordered list of Records. Append, Replace and
// Remove return a new Collection and leave the receiver untouched.
type Collection struct {
	records []Record
}

func NewCollection(records ...Record) Collection {
	return Collection{records: append([]Record(nil), records...)}
}

func (c Collection) Len() int { return len(c.records) }

func (c Collection) At(i int) Record { return c.records[i] }

func (c Collection) Records() []Record {
	return append([]Record(nil), c.records...)
}

func (c Collection) IndexOf(id string) int {
	for i, r := range c.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (c Collection) Find(id string) (Record, bool) {
	i := c.IndexOf(id)
	if i < 0 {
		return Record{}, false
	}
	return c.records[i], true
}

func (c Collection) Append(r Record) Collection {
	out := make([]Record, len(c.records), len(c.records)+1)
	copy(out, c.records)
	return Collection{records: append(out, r)}
}

// Replace swaps the record carrying r.ID for r, keeping its position.
// The result equals c when no such record exists.
func (c Collection) Replace(r Record) Collection {
	out := c.Records()
	if i := c.IndexOf(r.ID); i >= 0 {
		out[i] = r
	}
	return Collection{records: out}
}

func (c Collection) Remove(id string) Collection {
	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return Collection{records: out}
}

func (c Collection) Equal(o Collection) bool {
	if len(c.records) != len(o.records) {
		return false
	}
	for i := range c.records {
		if !c.records[i].Equal(o.records[i]) {
			return false
		}
	}
	return true
}
