package validate

import (
	"net/url"
	"testing"
)

func TestPageParams(t *testing.T) {
	cases := []struct {
		query   string
		want    Page
		wantErr bool
	}{
		{"", Page{Page: 1, Limit: DefaultLimit, Offset: 0}, false},
		{"page=3&limit=10", Page{Page: 3, Limit: 10, Offset: 20}, false},
		{"page=0", Page{}, true},
		{"page=x", Page{}, true},
		{"limit=101", Page{}, true},
		{"limit=-1", Page{}, true},
	}
	for _, tc := range cases {
		q, _ := url.ParseQuery(tc.query)
		got, err := PageParams(q)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tc.query)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("%q: got %+v err=%v", tc.query, got, err)
		}
	}
}

func TestSortOrder(t *testing.T) {
	q, _ := url.ParseQuery("sort_order=ASC")
	if desc, err := SortOrder(q, true); err != nil || desc {
		t.Fatalf("asc: desc=%v err=%v", desc, err)
	}
	if desc, err := SortOrder(url.Values{}, true); err != nil || !desc {
		t.Fatalf("default: desc=%v err=%v", desc, err)
	}
	q, _ = url.ParseQuery("sort_order=sideways")
	if _, err := SortOrder(q, false); err == nil {
		t.Fatal("expected error")
	}
}
