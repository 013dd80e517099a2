package sync_preparer

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// ComputeContentHash computes the content-address hash the remote versioning
// system uses to name objects: sha1("blob " + <decimal UTF-8 byte length> +
// "\x00" + <content>), rendered as lowercase hex. The header and body are
// hashed as one contiguous buffer; the framing is an external contract and
// must be reproduced byte for byte.
func ComputeContentHash(content string) string {
	body := []byte(content)

	var buf bytes.Buffer
	buf.Grow(len("blob ") + 20 + 1 + len(body))
	buf.WriteString("blob ")
	buf.WriteString(strconv.Itoa(len(body)))
	buf.WriteByte(0)
	buf.Write(body)

	sum := sha1.Sum(buf.Bytes())
	return hex.EncodeToString(sum[:])
}
