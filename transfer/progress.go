package transfer

import "io"

// ProgressFunc receives upload progress as an integer percent.
type ProgressFunc func(percent int)

// progressReader counts bytes handed to the HTTP transport and reports them as
// percentages. Reported values never decrease and never exceed 100.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  int
	cb    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.cb != nil && p.total > 0 {
		p.read += int64(n)
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct > p.last {
			p.last = pct
			p.cb(pct)
		}
	}
	return n, err
}
