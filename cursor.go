package evec

// Cursor walks a vector from head to tail.
//
// Unlike the traversal state of a raw block, a Cursor lives outside the
// vector, so any number of cursors can walk the same vector independently. A
// cursor is bound to the vector's state at Head: once the vector is mutated,
// Next stops and Err reports ErrCursorInvalidated.
//
//	c := v.Cursor()
//	for p, ok := c.Head(); ok; p, ok = c.Next() {
//	    fmt.Println(*p)
//	}
//	if err := c.Err(); err != nil {
//	    return err
//	}
type Cursor[T any] struct {
	v       *Vector[T]
	version uint64
	pos     int
	started bool
	err     error
}

// Cursor returns a new cursor over v. Call Head before Next.
func (v *Vector[T]) Cursor() *Cursor[T] {
	return &Cursor[T]{v: v}
}

// Head positions the cursor on the first element and returns it. It returns
// false if the vector is empty or unusable.
func (c *Cursor[T]) Head() (*T, bool) {
	const op = "head"

	c.err = nil
	if err := c.v.check(op); err != nil {
		c.err = err
		return nil, false
	}

	c.version = c.v.version
	c.pos = 0
	c.started = true

	if c.v.count == 0 {
		return nil, false
	}
	return &c.v.data[0], true
}

// Next advances the cursor and returns the element under it. It returns false
// at the end of the vector or on error; check Err to tell them apart.
func (c *Cursor[T]) Next() (*T, bool) {
	const op = "next"

	if c.err != nil {
		return nil, false
	}
	if err := c.v.check(op); err != nil {
		c.err = err
		return nil, false
	}
	if !c.started {
		c.err = c.v.environment().Fail(op, ErrCursorNotStarted)
		return nil, false
	}
	if c.version != c.v.version {
		c.err = c.v.environment().Fail(op, ErrCursorInvalidated)
		return nil, false
	}

	if c.pos < c.v.count {
		c.pos++
	}
	if c.pos >= c.v.count {
		return nil, false
	}
	return &c.v.data[c.pos], true
}

// Pos returns the index of the element under the cursor.
func (c *Cursor[T]) Pos() int {
	return c.pos
}

// Err returns the first error encountered by the cursor.
func (c *Cursor[T]) Err() error {
	return c.err
}
