package therapist

// Patch is a presence-tracking set of field changes. Setting a field marks it
// present even when the value is empty, so "explicitly cleared" and "left
// unchanged" stay distinguishable all the way down to the UPDATE statement.
type Patch struct {
	values map[string]string
}

func NewPatch() *Patch {
	return &Patch{values: make(map[string]string)}
}

func (p *Patch) Set(field, value string) {
	p.values[field] = value
}

func (p *Patch) Get(field string) (string, bool) {
	v, ok := p.values[field]
	return v, ok
}

func (p *Patch) Has(field string) bool {
	_, ok := p.values[field]
	return ok
}

func (p *Patch) IsEmpty() bool {
	return len(p.values) == 0
}

func (p *Patch) Len() int {
	return len(p.values)
}

// Fields returns the present field names. Order is not specified.
func (p *Patch) Fields() []string {
	fields := make([]string, 0, len(p.values))
	for f := range p.values {
		fields = append(fields, f)
	}
	return fields
}
