package object

import "encoding/binary"

// Exported-PDU tag numbers, per the wrapper format Wireshark's
// exported_pdu tap uses (spec.md §6: "exported PDU payload builder
// taking string-valued tags").
const (
	expPduTagDissectorName = 12
	expPduTagColProtoText  = 20
	expPduTagColInfoText   = 21
	expPduTagEndOfOpt      = 0
)

// buildExportedPDU wraps payload behind a tag/length/value header
// identifying the target dissector and the protocol/info columns a
// downstream viewer should show, used for APP_TEXT (spec.md §4.7.9) and
// ETHERNET_STATUS (spec.md §4.7.11) records.
func buildExportedPDU(dissector, protoText, infoText string, payload []byte) []byte {
	var buf []byte
	buf = appendExpPduTag(buf, expPduTagDissectorName, []byte(dissector))
	if protoText != "" {
		buf = appendExpPduTag(buf, expPduTagColProtoText, []byte(protoText))
	}
	if infoText != "" {
		buf = appendExpPduTag(buf, expPduTagColInfoText, []byte(infoText))
	}
	buf = appendExpPduTag(buf, expPduTagEndOfOpt, nil)
	return append(buf, payload...)
}

func appendExpPduTag(buf []byte, tag uint16, value []byte) []byte {
	v := append(append([]byte{}, value...), 0) // NUL-terminated
	padded := (len(v) + 3) / 4 * 4
	tmp := make([]byte, padded)
	copy(tmp, v)

	var hdr [4]byte
	binary.BigEndian.PutUint16(hdr[0:2], tag)
	binary.BigEndian.PutUint16(hdr[2:4], uint16(len(tmp)))

	buf = append(buf, hdr[:]...)
	return append(buf, tmp...)
}
