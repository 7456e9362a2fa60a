package task

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_WireFormat(t *testing.T) {
	data, err := encode([]Task{
		{ID: 1709280000000, Text: "dated", DueDate: "2024-03-01"},
		{ID: 1709280000001, Text: "undated", Completed: true},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":1709280000000,"text":"dated","completed":false,"dueDate":"2024-03-01"},
		{"id":1709280000001,"text":"undated","completed":true,"dueDate":null}
	]`, string(data))
}

func TestDecode_RoundTrip(t *testing.T) {
	in := []Task{
		{ID: 3, Text: "c", DueDate: "2024-06-01"},
		{ID: 2, Text: "b", Completed: true},
		{ID: 1, Text: "a", Completed: true, DueDate: "2024-01-01"},
	}
	data, err := encode(in)
	require.NoError(t, err)

	out, err := decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecode_AcceptsMissingDueDate(t *testing.T) {
	out, err := decode([]byte(`[{"id":1,"text":"a","completed":false}]`))
	require.NoError(t, err)
	assert.Equal(t, []Task{{ID: 1, Text: "a"}}, out)
}

func TestDecode_DropsEmptyText(t *testing.T) {
	out, err := decode([]byte(`[{"id":1,"text":""},{"id":2,"text":"keep"}]`))
	require.NoError(t, err)
	assert.Equal(t, []Task{{ID: 2, Text: "keep"}}, out)
}

func TestEncode_EmptyIsArray(t *testing.T) {
	data, err := encode(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestTask_UnmarshalRejectsWrongTypes(t *testing.T) {
	var got Task
	assert.Error(t, json.Unmarshal([]byte(`{"id":"x"}`), &got))
}

func TestParseDue(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "2024-02-29", want: "2024-02-29"},
		{in: "2023-02-29", wantErr: true},
		{in: "2024-3-1", wantErr: true},
		{in: "tomorrow", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDue(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckDue(t *testing.T) {
	tests := []struct {
		in, current string
		want        string
		wantErr     error
	}{
		{in: "", want: ""},
		{in: " 2024-03-12 ", want: "2024-03-12"},
		{in: "2024-03-11", wantErr: ErrPastDue},
		{in: "2024-03-11", current: "2024-03-11", want: "2024-03-11"},
		{in: "2024/03/20", wantErr: ErrBadDue},
	}
	for _, tt := range tests {
		got, err := CheckDue(tt.in, tt.current, "2024-03-12")
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
