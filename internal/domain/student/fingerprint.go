package student

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/yungbote/wellbeing-backend/internal/normalization"
)

// canonicalRecord fixes the key order of the fingerprint payload.
type canonicalRecord struct {
	Name           string   `json:"name"`
	Age            *int     `json:"age"`
	Gender         string   `json:"gender"`
	Year           *int     `json:"year"`
	StudyIntensity int      `json:"studyIntensity"`
	SleepProblems  int      `json:"sleepProblems"`
	Headaches      int      `json:"headaches"`
	SocialPressure int      `json:"socialPressure"`
	Anxiety        int      `json:"anxiety"`
	GPA            *float64 `json:"gpa"`
}

// CanonicalJSON is the exact byte payload hashed into the fingerprint.
// Both the manual submission path and CSV ingestion go through it.
func CanonicalJSON(s *Student) []byte {
	rec := canonicalRecord{
		Name:           normalization.ParseInputString(s.Name),
		Age:            s.Age,
		Gender:         normalization.ParseInputStringPtr(s.Gender),
		Year:           s.Year,
		StudyIntensity: s.StudyIntensity,
		SleepProblems:  s.SleepProblems,
		Headaches:      s.Headaches,
		SocialPressure: s.SocialPressure,
		Anxiety:        s.Anxiety,
		GPA:            s.GPA,
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Non-finite GPA values are rejected before records get here.
	_ = enc.Encode(rec)
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

// Fingerprint returns the lowercase hex SHA-256 of CanonicalJSON.
func Fingerprint(s *Student) string {
	sum := sha256.Sum256(CanonicalJSON(s))
	return hex.EncodeToString(sum[:])
}

// Seal computes and stores the fingerprint on s.
func (s *Student) Seal() *Student {
	s.Fingerprint = Fingerprint(s)
	return s
}
