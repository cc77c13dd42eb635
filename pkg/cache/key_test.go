package cache

import (
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "simple endpoint no params",
			key: Key{
				Endpoint: "/v1/games",
			},
			want: "crawler:v1/games",
		},
		{
			name: "endpoint with query params",
			key: Key{
				Endpoint: "/v1/games",
				Query: url.Values{
					"universeIds": []string{"123,456"},
				},
			},
			want: "crawler:v1/games:universeIds=123,456",
		},
		{
			name: "multiple query params (sorted)",
			key: Key{
				Endpoint: "/explore-api/v1/get-sorts",
				Query: url.Values{
					"sessionId":      []string{"abc"},
					"device":         []string{"computer"},
					"sortsPageToken": []string{"tok1"},
				},
			},
			want: "crawler:explore-api/v1/get-sorts:device=computer:sessionId=abc:sortsPageToken=tok1",
		},
		{
			name: "trailing slash normalized",
			key: Key{
				Endpoint: "/v1/games/",
			},
			want: "crawler:v1/games",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.key.String()
			if got != tt.want {
				t.Errorf("Key.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestKey_Determinism ensures same input always produces same key
func TestKey_Determinism(t *testing.T) {
	key := Key{
		Endpoint: "/v1/games",
		Query: url.Values{
			"universeIds": []string{"1,2,3"},
			"sessionId":   []string{"abc"},
		},
	}

	results := make([]string, 10)
	for i := 0; i < 10; i++ {
		results[i] = key.String()
	}

	first := results[0]
	for i, result := range results {
		if result != first {
			t.Errorf("result[%d] = %v, want %v (not deterministic)", i, result, first)
		}
	}
}
