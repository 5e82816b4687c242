// Package patient holds the patient visit record model, the store contract,
// and the phone-keyed identity reconciler.
//
// Identity is the normalized phone number: a record's phone reduced to its
// bare digit sequence. Two records belong to the same patient identity iff
// those digit strings are equal. Records are append-only — one row per intake
// event, never updated — so a returning patient accumulates one record per
// visit.
package patient

import "regexp"

// VisitRecord is one intake event. A person may have many records, one per
// visit, all sharing a normalized phone.
type VisitRecord struct {
	// ID is assigned by the store on creation and increases monotonically, so
	// "latest record" means "highest ID".
	ID int64 `json:"id"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	// PhoneNumber is nil when the intake could not resolve a phone. The manual
	// path stores bare digits; the voice path stores the extractor's grouped
	// DDD-DDD-DDDD form. Identity comparisons always strip to digits first, so
	// the two forms reconcile.
	PhoneNumber *string `json:"phoneNumber"`

	Address string `json:"address"`

	// NewPatient is a snapshot taken once at creation: true iff no prior record
	// with the same normalized phone existed at that moment. It is never
	// recomputed — later visits under the same phone must not rewrite history.
	// Compare Stats.FirstTimeNew, which IS recomputed live.
	NewPatient bool `json:"newPatient"`
}

// Stats is the live view of a patient's visit history, recomputed on every
// query. FirstTimeNew can disagree with the record's stored NewPatient
// snapshot once more visits arrive under the same phone; that divergence is
// deliberate (history vs. live state).
type Stats struct {
	VisitCount   int  `json:"visit_count"`
	FirstTimeNew bool `json:"new_patient_first_time"`
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// NormalizePhone reduces a phone number to its bare digit sequence, the sole
// identity key. nil stays nil — "unparseable" and "parsed to empty" are
// distinct states and both differ from a real digit string.
func NormalizePhone(raw *string) *string {
	if raw == nil {
		return nil
	}
	norm := nonDigits.ReplaceAllString(*raw, "")
	return &norm
}
