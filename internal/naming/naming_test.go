package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToParameterName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "FirstName", want: "firstName"},
		{in: "firstName", want: "firstName"},
		{in: "X", want: "x"},
		{in: "Type", want: "_type"},
		{in: "Func", want: "_func"},
		{in: "_type", want: "_type"},
		{in: "_Type", want: "_type"},
		{in: "_Name", want: "_name"},
		{in: "_", want: "_"},
		{in: "Élan", want: "élan"},
		{in: "ID", want: "iD"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ToParameterName(tc.in))
		})
	}
}

func TestToAccessorName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "firstName", want: "FirstName"},
		{in: "FirstName", want: "FirstName"},
		{in: "x", want: "X"},
		{in: "type", want: "Type"},
		{in: "_type", want: "Type"},
		{in: "_range", want: "Range"},
		{in: "élan", want: "Élan"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ToAccessorName(tc.in))
		})
	}
}

func TestToParameterName_EmptyPanics(t *testing.T) {
	assert.Panics(t, func() { ToParameterName("") })
	assert.Panics(t, func() { ToAccessorName("") })
}

type member string

func (m member) DisplayName() string { return string(m) }

func TestMemberForms(t *testing.T) {
	assert.Equal(t, "_default", ParameterName(member("Default")))
	assert.Equal(t, "Default", AccessorName(member("default")))
}

func TestReceiverName(t *testing.T) {
	assert.Equal(t, "p", ReceiverName("Person"))
	assert.Equal(t, "p", ReceiverName("person"))
	assert.Equal(t, "s", ReceiverName("_script"))
	assert.Equal(t, "x", ReceiverName("_"))
}

func TestConstructorName(t *testing.T) {
	assert.Equal(t, "NewPerson", ConstructorName("Person"))
	assert.Equal(t, "newPerson", ConstructorName("person"))
	assert.Equal(t, "newScript", ConstructorName("_script"))
}
