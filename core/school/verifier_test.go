package school

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seoul = Record{
	Name:          "서울초등학교",
	Address:       "서울특별시 서초구 서초중앙로 96",
	TypeLabel:     "초등학교",
	StandardCode:  "7010911",
	AuthorityCode: "B10",
}

func TestVerifier_Verify(t *testing.T) {
	v := NewVerifier(NewFakeDirectory(seoul))

	tests := []struct {
		name  string
		sname string
		code  string
		want  Verification
	}{
		{name: "bad format", sname: "서울초등학교", code: "12345", want: Verification{Reason: ReasonBadFormat}},
		{name: "not found", sname: "서울초등학교", code: "7777777", want: Verification{Reason: ReasonNotFound}},
		{name: "wrong authority", sname: "서울초등학교", code: "J107010911", want: Verification{Reason: ReasonNotFound}},
		{name: "name mismatch", sname: "부산초등학교", code: "7010911", want: Verification{Reason: ReasonNameMismatch, Record: seoul}},
		{name: "blank name", sname: "  ", code: "7010911", want: Verification{Reason: ReasonNameMismatch, Record: seoul}},
		{name: "exact", sname: "서울초등학교", code: "7010911", want: Verification{Accepted: true, Record: seoul}},
		{name: "abbreviated", sname: "서울초", code: "b107010911", want: Verification{Accepted: true, Record: seoul}},
		{name: "longer claim", sname: "서울 초등학교 (본교)", code: "7010911", want: Verification{Accepted: true, Record: seoul}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Verify(context.Background(), tt.sname, tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifier_Verify_BadFormatSkipsLookup(t *testing.T) {
	dir := NewFakeDirectory(seoul)
	_, err := NewVerifier(dir).Verify(context.Background(), "서울초", "lol")
	require.NoError(t, err)
	assert.Zero(t, dir.Calls)
}

func TestVerifier_Verify_LookupFailed(t *testing.T) {
	dir := NewFakeDirectory(seoul)
	dir.Err = &LookupError{Op: "get", Err: errors.New("connection refused")}

	_, err := NewVerifier(dir).Verify(context.Background(), "서울초", "7010911")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLookupFailed))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestNamesMatch(t *testing.T) {
	tests := []struct {
		claimed, actual string
		want            bool
	}{
		{"서울초", "서울초등학교", true},
		{"서울초등학교", "서울초", true},
		{"Seoul Elementary", "seoulelementary", true},
		{"서울중", "서울초등학교", false},
		{"", "서울초등학교", false},
	}
	for _, tt := range tests {
		t.Run(tt.claimed+"/"+tt.actual, func(t *testing.T) {
			assert.Equal(t, tt.want, NamesMatch(tt.claimed, tt.actual))
		})
	}
}

func TestRankByName(t *testing.T) {
	records := []Record{
		{Name: "서울대학교사범대학부설초등학교"},
		{Name: "서울초등학교"},
		{Name: "서울교대부설초등학교"},
	}
	got := RankByName(records, "서울초등학교")
	assert.Equal(t, "서울초등학교", got[0].Name)
	assert.Len(t, got, 3)
	assert.Equal(t, "서울대학교사범대학부설초등학교", records[0].Name, "input must not be reordered")
}
