package validation

import "testing"

func TestValidateTicketCreate(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"minimal", `{"title":"chairs"}`, false},
		{"full", `{"title":"chairs","description":"six","amount":120.5}`, false},
		{"missing title", `{"description":"six"}`, true},
		{"empty title", `{"title":""}`, true},
		{"negative amount", `{"title":"x","amount":-1}`, true},
		{"amount wrong type", `{"title":"x","amount":"12"}`, true},
		{"not an object", `[1,2]`, true},
		{"garbage", `{not json`, true},
		{"empty body", ``, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTicketCreate([]byte(tc.body))
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tc.wantErr)
			}
		})
	}
}
