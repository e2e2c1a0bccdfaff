package segment

// alwaysPolicy implements FsyncPolicyAlways: every append is durable before
// the caller gets control back.
type alwaysPolicy struct {
	sync func() error
}

func newAlwaysPolicy(sync func() error) *alwaysPolicy {
	return &alwaysPolicy{sync: sync}
}

func (p *alwaysPolicy) Append(Position) error {
	return p.sync()
}

func (p *alwaysPolicy) Close() error {
	return p.sync()
}
