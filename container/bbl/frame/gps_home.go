package frame

import (
	"io"

	"github.com/flightrec/bbl/container/bbl/wire"
)

// DecodeH reads an H frame's fixed two-value body — home latitude and
// longitude deltas, each SIGNED_VB — and applies them against the previous
// home position. Unlike I/P/S/G, H frames are not schema-driven on the
// wire: any "Field H ..." header lines only name the two values for sinks.
func DecodeH(r io.ByteReader, prevLat, prevLon int32) (lat, lon int32, err error) {
	dLat, err := wire.ReadSignedVB(r)
	if err != nil {
		return 0, 0, err
	}
	dLon, err := wire.ReadSignedVB(r)
	if err != nil {
		return 0, 0, err
	}
	return prevLat + dLat, prevLon + dLon, nil
}
