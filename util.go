// util.go -- small helpers shared by the writer and query engine
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package fcnf

import (
	"fmt"
	"io"
)

// writeAll writes the entirety of 'b' to 'w', treating a short write
// (without an accompanying error) as an I/O failure rather than
// silently truncating the sink.
func writeAll(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("short write: wrote %d of %d bytes", n, len(b))
	}
	return nil
}
