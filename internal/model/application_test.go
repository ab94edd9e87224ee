package model

import "testing"

// A stored snapshot must be a value copy: edits to the source form after
// submission may not alter it.
func TestFormSnapshotCloneIsolation(t *testing.T) {
	form := FormSnapshot{
		Name:      "Test User",
		Gender:    GenderMale,
		BirthYear: 1997,
		Age:       28,
		Phone:     "010-1234-5678",
		HeightCM:  175,
		WeightKG:  70,
		Photos:    []string{"https://cdn.example.com/a.jpg"},
		IdealType: "kind and funny",
	}
	stored := form.Clone()

	form.Name = "Renamed User"
	form.Photos[0] = "https://cdn.example.com/swapped.jpg"
	form.Photos = append(form.Photos, "https://cdn.example.com/b.jpg")

	if stored.Name != "Test User" {
		t.Errorf("stored snapshot name changed to %q", stored.Name)
	}
	if len(stored.Photos) != 1 || stored.Photos[0] != "https://cdn.example.com/a.jpg" {
		t.Errorf("stored snapshot photos mutated: %v", stored.Photos)
	}
}

func TestGenderValid(t *testing.T) {
	if !GenderMale.Valid() || !GenderFemale.Valid() {
		t.Error("known genders rejected")
	}
	if Gender("other").Valid() || Gender("").Valid() {
		t.Error("unknown gender accepted")
	}
}
