package stamp

func Let1[T0, O any](
	b *Binder,
	name string,
	dep0 string,
	fn func(T0) O,
) error {
	return b.Set(name, func(c *Context) (any, error) {
		v0, err := Get[T0](c, dep0)
		if err != nil {
			return nil, err
		}
		return fn(v0), nil
	})
}

func Let2[T0, T1, O any](
	b *Binder,
	name string,
	dep0, dep1 string,
	fn func(T0, T1) O,
) error {
	return b.Set(name, func(c *Context) (any, error) {
		v0, err := Get[T0](c, dep0)
		if err != nil {
			return nil, err
		}
		v1, err := Get[T1](c, dep1)
		if err != nil {
			return nil, err
		}
		return fn(v0, v1), nil
	})
}

func Let3[T0, T1, T2, O any](
	b *Binder,
	name string,
	dep0, dep1, dep2 string,
	fn func(T0, T1, T2) O,
) error {
	return b.Set(name, func(c *Context) (any, error) {
		v0, err := Get[T0](c, dep0)
		if err != nil {
			return nil, err
		}
		v1, err := Get[T1](c, dep1)
		if err != nil {
			return nil, err
		}
		v2, err := Get[T2](c, dep2)
		if err != nil {
			return nil, err
		}
		return fn(v0, v1, v2), nil
	})
}

func Let4[T0, T1, T2, T3, O any](
	b *Binder,
	name string,
	dep0, dep1, dep2, dep3 string,
	fn func(T0, T1, T2, T3) O,
) error {
	return b.Set(name, func(c *Context) (any, error) {
		v0, err := Get[T0](c, dep0)
		if err != nil {
			return nil, err
		}
		v1, err := Get[T1](c, dep1)
		if err != nil {
			return nil, err
		}
		v2, err := Get[T2](c, dep2)
		if err != nil {
			return nil, err
		}
		v3, err := Get[T3](c, dep3)
		if err != nil {
			return nil, err
		}
		return fn(v0, v1, v2, v3), nil
	})
}
