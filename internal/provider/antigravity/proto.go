package antigravity

import "encoding/base64"

// SubscriptionTier is the subscription parsed from the protobuf blob in the
// vscdb auth status.
type SubscriptionTier struct {
	ID   string // e.g. "g1-pro-tier"
	Name string // e.g. "Google AI Pro"
}

// parseSubscriptionTier extracts the subscription from the
// userStatusProtoBinaryBase64 field. The relevant wire structure:
//
//	top-level field 36 (message): subscription
//	  field 1 (string): tier ID
//	  field 2 (string): tier name
func parseSubscriptionTier(base64Value string) *SubscriptionTier {
	if base64Value == "" {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(base64Value)
	if err != nil {
		return nil
	}

	sub := protoField(data, 36)
	if sub == nil {
		return nil
	}

	tier := &SubscriptionTier{
		ID:   string(protoField(sub, 1)),
		Name: string(protoField(sub, 2)),
	}
	if tier.ID == "" && tier.Name == "" {
		return nil
	}
	return tier
}

// protoField returns the payload of the first length-delimited field with
// the given number, walking the message at the top level only. Returns nil
// for malformed input or unknown wire types.
func protoField(data []byte, want uint64) []byte {
	offset := 0
	for offset < len(data) {
		tag, next := readVarint(data, offset)
		if next == offset {
			return nil
		}
		offset = next

		fieldNum := tag >> 3
		switch tag & 0x7 {
		case 0: // varint
			_, next := readVarint(data, offset)
			if next == offset {
				return nil
			}
			offset = next
		case 2: // length-delimited
			length, next := readVarint(data, offset)
			if next == offset {
				return nil
			}
			offset = next
			// Compare in uint64 space so a huge declared length cannot
			// overflow the slice bound.
			if length > uint64(len(data)-offset) {
				return nil
			}
			end := offset + int(length)
			if fieldNum == want {
				return data[offset:end]
			}
			offset = end
		default:
			return nil
		}
	}
	return nil
}

// readVarint reads a protobuf varint at offset, returning the value and the
// new offset. Malformed input returns the offset unchanged.
func readVarint(data []byte, offset int) (uint64, int) {
	var val uint64
	var shift uint
	for i := offset; i < len(data); i++ {
		b := data[i]
		val |= uint64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			return val, i + 1
		}
	}
	// Ran out of bytes with the continuation bit still set.
	return 0, offset
}
