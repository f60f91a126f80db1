package quotes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validFields() Fields {
	return Fields{
		Name:            "Somchai Saengchai",
		Phone:           "+66 92-006-8100",
		Location:        "Sukhumvit Soi 21, Bangkok",
		MeasurementDate: "2025-12-01",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Fields)
		want   ErrorMap
	}{
		{
			name:   "all valid",
			mutate: func(*Fields) {},
			want:   ErrorMap{},
		},
		{
			name:   "whitespace name",
			mutate: func(f *Fields) { f.Name = "   \t" },
			want:   ErrorMap{FieldName: MsgNameRequired},
		},
		{
			name:   "empty phone reports required only",
			mutate: func(f *Fields) { f.Phone = "  " },
			want:   ErrorMap{FieldPhone: MsgPhoneRequired},
		},
		{
			name:   "phone with letters",
			mutate: func(f *Fields) { f.Phone = "abc#" },
			want:   ErrorMap{FieldPhone: MsgPhoneInvalid},
		},
		{
			name:   "phone with extension marker",
			mutate: func(f *Fields) { f.Phone = "02-123-4567 ext. 9" },
			want:   ErrorMap{FieldPhone: MsgPhoneInvalid},
		},
		{
			name:   "phone with parentheses and plus",
			mutate: func(f *Fields) { f.Phone = "(+66) 2 123 4567" },
			want:   ErrorMap{},
		},
		{
			name:   "phone with no-break space",
			mutate: func(f *Fields) { f.Phone = "+66\u00a092 006 8100" },
			want:   ErrorMap{FieldPhone: MsgPhoneInvalid},
		},
		{
			name:   "phone with ideographic space",
			mutate: func(f *Fields) { f.Phone = "02\u3000123 4567" },
			want:   ErrorMap{FieldPhone: MsgPhoneInvalid},
		},
		{
			name:   "phone with tab separator",
			mutate: func(f *Fields) { f.Phone = "02\t123 4567" },
			want:   ErrorMap{},
		},
		{
			name:   "missing location",
			mutate: func(f *Fields) { f.Location = "" },
			want:   ErrorMap{FieldLocation: MsgLocationRequired},
		},
		{
			name:   "missing date",
			mutate: func(f *Fields) { f.MeasurementDate = "" },
			want:   ErrorMap{FieldMeasurementDate: MsgDateRequired},
		},
		{
			name: "every field failing",
			mutate: func(f *Fields) {
				*f = Fields{Phone: "x"}
			},
			want: ErrorMap{
				FieldName:            MsgNameRequired,
				FieldPhone:           MsgPhoneInvalid,
				FieldLocation:        MsgLocationRequired,
				FieldMeasurementDate: MsgDateRequired,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			assert.Equal(t, tt.want, Validate(f))
		})
	}
}

func TestValidate_NameErrorIndependentOfOtherFields(t *testing.T) {
	for _, other := range []Fields{
		{},
		{Phone: "abc", Location: "x"},
		{Phone: "123", Location: "x", MeasurementDate: "2025-12-01"},
	} {
		other.Name = " "
		errs := Validate(other)
		assert.Equal(t, MsgNameRequired, errs[FieldName])
	}
}

func TestValidate_KeysAreFormFields(t *testing.T) {
	errs := Validate(Fields{})
	for key := range errs {
		assert.True(t, key.Valid(), "unexpected key %q", key)
	}
}

func TestParseField(t *testing.T) {
	for _, f := range AllFields {
		got, err := ParseField(string(f))
		assert.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseField("email")
	assert.ErrorIs(t, err, ErrUnknownField)
}
