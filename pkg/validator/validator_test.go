package validator

import "testing"

// applyForm mirrors the unified application submission schema.
type applyForm struct {
	Name      string   `json:"name" validate:"required"`
	Gender    string   `json:"gender" validate:"required,oneof=male female"`
	BirthYear int      `json:"birth_year" validate:"required,min=1950,max=2010"`
	Phone     string   `json:"phone" validate:"required"`
	Height    int      `json:"height" validate:"required,min=100,max=250"`
	Weight    int      `json:"weight" validate:"required,min=30,max=200"`
	IdealType string   `json:"ideal_type" validate:"required,max=300"`
	Consent   bool     `json:"consent" validate:"eq=true"`
	Photos    []string `json:"photos" validate:"min=1,max=3,dive,url"`
}

func validForm() applyForm {
	return applyForm{
		Name:      "Test User",
		Gender:    "female",
		BirthYear: 1995,
		Phone:     "010-9876-5432",
		Height:    163,
		Weight:    50,
		IdealType: "considerate",
		Consent:   true,
		Photos:    []string{"https://cdn.example.com/face.jpg"},
	}
}

func TestValidateAcceptsValidForm(t *testing.T) {
	if fields := Validate(validForm()); fields != nil {
		t.Fatalf("expected no errors, got %v", fields)
	}
}

func TestValidateRejections(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(*applyForm)
		badField string
	}{
		{"empty name", func(f *applyForm) { f.Name = "" }, "name"},
		{"unknown gender", func(f *applyForm) { f.Gender = "other" }, "gender"},
		{"birth year too early", func(f *applyForm) { f.BirthYear = 1949 }, "birth_year"},
		{"birth year too late", func(f *applyForm) { f.BirthYear = 2011 }, "birth_year"},
		{"empty phone", func(f *applyForm) { f.Phone = "" }, "phone"},
		{"height below range", func(f *applyForm) { f.Height = 99 }, "height"},
		{"height above range", func(f *applyForm) { f.Height = 251 }, "height"},
		{"weight below range", func(f *applyForm) { f.Weight = 29 }, "weight"},
		{"weight above range", func(f *applyForm) { f.Weight = 201 }, "weight"},
		{"empty ideal type", func(f *applyForm) { f.IdealType = "" }, "ideal_type"},
		{"consent not given", func(f *applyForm) { f.Consent = false }, "consent"},
		{"zero photos", func(f *applyForm) { f.Photos = nil }, "photos"},
		{"four photos", func(f *applyForm) {
			f.Photos = []string{
				"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg",
				"https://cdn.example.com/3.jpg", "https://cdn.example.com/4.jpg",
			}
		}, "photos"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)
			fields := Validate(form)
			if fields == nil {
				t.Fatal("expected validation failure, got none")
			}
			if _, ok := fields[tc.badField]; !ok {
				t.Errorf("expected message for %q, got %v", tc.badField, fields)
			}
		})
	}
}

// Multiple broken fields each get their own message in a single pass.
func TestValidateReportsAllFields(t *testing.T) {
	form := validForm()
	form.Name = ""
	form.Consent = false
	form.Photos = nil
	fields := Validate(form)
	for _, f := range []string{"name", "consent", "photos"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("missing message for %q: %v", f, fields)
		}
	}
}
