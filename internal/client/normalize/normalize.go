// Package normalize merges stored records with a defaults template so that
// records written by older or newer versions stay usable.
package normalize

import (
	"encoding/json"
	"maps"

	"github.com/tidwall/gjson"

	"github.com/dmitrijs2005/gophfit/internal/models"
)

// Record is a loosely typed JSON object.
type Record map[string]any

// Normalize returns a new record holding every template key, overridden by
// the keys present in raw. Keys only raw knows about are kept. Neither input
// is modified, and Normalize(Normalize(r, d), d) equals Normalize(r, d).
//
// The merge is shallow: a nested object in raw replaces the template's
// nested object as a whole.
func Normalize(raw, defaults Record) Record {
	out := make(Record, len(defaults)+len(raw))
	maps.Copy(out, defaults)
	maps.Copy(out, raw)
	return out
}

// NormalizeJSON decodes raw and normalizes it. Anything that is not a JSON
// object (null, arrays, scalars, garbage) counts as an empty record.
func NormalizeJSON(raw []byte, defaults Record) Record {
	var rec Record
	if gjson.ValidBytes(raw) && gjson.ParseBytes(raw).IsObject() {
		if err := json.Unmarshal(raw, &rec); err != nil {
			rec = nil
		}
	}
	return Normalize(rec, defaults)
}

// ProfileDefaults is the template every stored profile is merged with.
func ProfileDefaults() Record {
	return Record{
		"hasPaid":             false,
		"paymentDate":         "",
		"country":             "Brasil",
		"language":            "pt",
		"medicalConditions":   "",
		"dietaryRestrictions": "",
		"activityLevel":       models.ActivityModerate,
	}
}

// Profile normalizes a stored profile record and decodes it. It reports
// false when raw holds no object at all.
func Profile(raw []byte) (models.Profile, bool) {
	var p models.Profile
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return p, false
	}

	rec := NormalizeJSON(raw, ProfileDefaults())
	// a null in the stored record must not wipe out a default
	for k, v := range ProfileDefaults() {
		if rec[k] == nil {
			rec[k] = v
		}
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return p, false
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return decodeLenient(rec), true
	}
	return p, true
}

// decodeLenient copies over the fields that have the expected type when a
// record carries a wrongly typed field.
func decodeLenient(rec Record) models.Profile {
	var p models.Profile
	for k, v := range rec {
		b, err := json.Marshal(Record{k: v})
		if err != nil {
			continue
		}
		var one models.Profile
		if json.Unmarshal(b, &one) != nil {
			continue
		}
		mergeField(&p, &one, k)
	}
	return p
}

func mergeField(dst, src *models.Profile, key string) {
	switch key {
	case "name":
		dst.Name = src.Name
	case "email":
		dst.Email = src.Email
	case "birthDate":
		dst.BirthDate = src.BirthDate
	case "gender":
		dst.Gender = src.Gender
	case "height":
		dst.Height = src.Height
	case "weight":
		dst.Weight = src.Weight
	case "activityLevel":
		dst.ActivityLevel = src.ActivityLevel
	case "medicalConditions":
		dst.MedicalConditions = src.MedicalConditions
	case "dietaryRestrictions":
		dst.DietaryRestrictions = src.DietaryRestrictions
	case "country":
		dst.Country = src.Country
	case "state":
		dst.State = src.State
	case "language":
		dst.Language = src.Language
	case "hasPaid":
		dst.HasPaid = src.HasPaid
	case "paymentDate":
		dst.PaymentDate = src.PaymentDate
	default:
		if dst.Extra == nil {
			dst.Extra = map[string]json.RawMessage{}
		}
		maps.Copy(dst.Extra, src.Extra)
	}
}
