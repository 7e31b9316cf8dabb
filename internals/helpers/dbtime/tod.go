// file: internals/helpers/dbtime/tod.go
package dbtime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Tod = time-of-day (kolom TIME), dipakai jadwal kelas
type Tod struct{ time.Time }

// From: bikin Tod dari time.Time (ambil HH:mm:ss, buang tanggal & zona)
func From(t time.Time) Tod {
	return Tod{
		Time: time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC),
	}
}

// ParseTod: "HH:mm[:ss]"
func ParseTod(s string) (Tod, error) {
	var tt Tod
	if err := tt.parse(s); err != nil {
		return Tod{}, err
	}
	return tt, nil
}

func MustTod(s string) Tod {
	t, err := ParseTod(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tod) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*t = From(x)
		return nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("tod: unsupported Scan type %T", v)
	}
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	// postgres bisa kirim "HH:MM:SS.ffffff"; sqlite kadang "0000-01-01 HH:MM:SS"
	if i := strings.LastIndex(s, " "); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, "."); i >= 0 {
		s = s[:i]
	}
	if len(s) == 5 { // "HH:MM"
		s += ":00"
	}
	tt, err := time.Parse("15:04:05", s)
	if err != nil {
		return fmt.Errorf("tod: %w", err)
	}
	*t = From(tt)
	return nil
}

// Value: kirim "HH:MM:SS" agar kolom TIME paham
func (t Tod) Value() (driver.Value, error) {
	return t.String(), nil
}

func (Tod) GormDataType() string { return "time" }

// sqlite: kolom "time" jadi datetime dan driver mengembalikan zero time
// untuk "08:00:00", jadi simpan sebagai text
func (Tod) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "sqlite" {
		return "text"
	}
	return "time"
}

func (t Tod) String() string { return t.Format("15:04:05") }

// Minutes sejak 00:00, enak buat membandingkan jam mulai/selesai
func (t Tod) Minutes() int { return t.Hour()*60 + t.Minute() }

func (t Tod) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format("15:04"))
}

func (t *Tod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.parse(s)
}
