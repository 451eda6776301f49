package util

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	PatientPrefix = "PAT"
	DoctorPrefix  = "DOC"
	BillPrefix    = "BILL"
)

// GenerateCode builds an external identifier of the prefix and nine digits, such as PAT123456042.
func GenerateCode(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	id := uuid.New()
	suffix := binary.BigEndian.Uint16(id[:2]) % 1000
	return fmt.Sprintf("%s%s%03d", prefix, ts, suffix)
}
