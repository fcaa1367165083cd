package console

import (
	"io"

	"golang.org/x/text/transform"
)

// NewCRLFWriter returns a writer translating each '\n' into "\r\n", which is
// what most serial terminals expect.
func NewCRLFWriter(w io.Writer) io.Writer {
	return transform.NewWriter(w, CRLF)
}

// CRLF is the transformer used by NewCRLFWriter.
var CRLF transform.Transformer = crlf{}

type crlf struct{ transform.NopResetter }

func (crlf) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		if c == '\n' {
			if nDst+2 > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = '\r'
			dst[nDst+1] = '\n'
			nDst += 2
		} else {
			if nDst+1 > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
		}
		nSrc++
	}
	return nDst, nSrc, nil
}
