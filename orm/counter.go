package orm

var _ CloneableData = (*Counter)(nil)

// Copy produces a new Counter with the same count
func (c *Counter) Copy() CloneableData {
	return &Counter{
		Count: c.Count,
	}
}

// Validate is always succesful
func (c *Counter) Validate() error {
	return nil
}
