// Package models defines the fitness domain records shared by the client and the server.
package models

import (
	"encoding/json"
	"maps"
)

// Gender values accepted in Profile.Gender.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Activity levels accepted in Profile.ActivityLevel.
const (
	ActivitySedentary = "sedentary"
	ActivityLight     = "light"
	ActivityModerate  = "moderate"
	ActivityActive    = "active"
	ActivityAthlete   = "athlete"
)

// Profile is the user's onboarding record.
//
// HasPaid and PaymentDate form a one-way latch: once HasPaid is true it is
// never cleared by a merge. Fields unknown to this version are kept in Extra
// and written back unchanged.
type Profile struct {
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	BirthDate           string  `json:"birthDate"`
	Gender              string  `json:"gender"`
	Height              float64 `json:"height"`
	Weight              float64 `json:"weight"`
	ActivityLevel       string  `json:"activityLevel"`
	MedicalConditions   string  `json:"medicalConditions"`
	DietaryRestrictions string  `json:"dietaryRestrictions"`
	Country             string  `json:"country"`
	State               string  `json:"state"`
	Language            string  `json:"language"`
	HasPaid             bool    `json:"hasPaid"`
	PaymentDate         string  `json:"paymentDate"`

	Extra map[string]json.RawMessage `json:"-"`
}

type profileFields Profile

var profileKeys = []string{
	"name", "email", "birthDate", "gender", "height", "weight", "activityLevel",
	"medicalConditions", "dietaryRestrictions", "country", "state", "language",
	"hasPaid", "paymentDate",
}

// UnmarshalJSON decodes the known fields and stashes the rest in Extra.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var f profileFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range profileKeys {
		delete(all, k)
	}
	if len(all) == 0 {
		all = nil
	}

	*p = Profile(f)
	p.Extra = all
	return nil
}

// MarshalJSON writes the known fields followed by any preserved extras.
func (p Profile) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(profileFields(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return known, nil
	}

	out := make(map[string]json.RawMessage, len(profileKeys)+len(p.Extra))
	maps.Copy(out, p.Extra)
	var kv map[string]json.RawMessage
	if err := json.Unmarshal(known, &kv); err != nil {
		return nil, err
	}
	maps.Copy(out, kv)
	return json.Marshal(out)
}

// MergeLatch returns next with the payment latch carried over from prev.
// A paid profile stays paid, keeping its original payment date when next has none.
func MergeLatch(prev, next Profile) Profile {
	if prev.HasPaid {
		next.HasPaid = true
		if next.PaymentDate == "" {
			next.PaymentDate = prev.PaymentDate
		}
	}
	return next
}
