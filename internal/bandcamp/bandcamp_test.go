package bandcamp

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/handiism/bandcamp-contacts/internal/http"
	"github.com/handiism/bandcamp-contacts/internal/page"
)

func mustParse(t *testing.T, html, pageURL string) *page.Page {
	t.Helper()
	p, err := page.Parse([]byte(html), pageURL)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return p
}

func TestParser_ParseAlbumPage(t *testing.T) {
	html := `<html><body>
	<div id="name-section"><h2 class="trackTitle"> Night Drives </h2></div>
	<p id="band-name-location"><span class="title">The Band</span><span class="location">Oslo, Norway</span></p>
	<p id="bio-text">Synth duo.
		Booking: <a>band@example.com</a></p>
	<div class="tralbumData truncated">Recorded in winter.</div>
	</body></html>`

	albumURL := "https://theband.bandcamp.com/album/night-drives"
	album := NewParser().ParseAlbumPage(mustParse(t, html, albumURL), albumURL)

	if album.Artist != "The Band" {
		t.Errorf("Artist = %q, want %q", album.Artist, "The Band")
	}
	wantBio := "Synth duo. Booking: band@example.com Recorded in winter."
	if album.Bio != wantBio {
		t.Errorf("Bio = %q, want %q", album.Bio, wantBio)
	}
	if album.URL != albumURL {
		t.Errorf("URL = %q, want %q", album.URL, albumURL)
	}
}

func TestParser_ParseAlbumPage_TralbumFallback(t *testing.T) {
	html := `<html>
	<script data-tralbum="{&quot;current&quot;:{&quot;title&quot;:&quot;Test Album&quot;},&quot;artist&quot;:&quot;Test Artist&quot;}"></script>
	<body><div class="peekaboo-text">Long bio here.</div></body>
	</html>`

	album := NewParser().ParseAlbumPage(mustParse(t, html, "https://x.bandcamp.com/album/t"), "https://x.bandcamp.com/album/t")

	if album.Artist != "Test Artist" {
		t.Errorf("Artist = %q, want %q", album.Artist, "Test Artist")
	}
	if album.Bio != "Long bio here." {
		t.Errorf("Bio = %q, want %q", album.Bio, "Long bio here.")
	}
}

func TestParser_ParseAlbumPage_MarkupArtistWins(t *testing.T) {
	// A page with the artist in the markup never consults data-tralbum,
	// even when the album title is missing and the JSON is malformed.
	html := `<html>
	<script data-tralbum="{&quot;artist&quot;: broken"></script>
	<body><p id="band-name-location"><span class="title">Markup Band</span></p></body>
	</html>`

	album := NewParser().ParseAlbumPage(mustParse(t, html, "https://x.bandcamp.com/album/t"), "https://x.bandcamp.com/album/t")

	if album.Artist != "Markup Band" {
		t.Errorf("Artist = %q, want %q", album.Artist, "Markup Band")
	}
}

func TestParser_ParseAlbumPage_Empty(t *testing.T) {
	album := NewParser().ParseAlbumPage(mustParse(t, `<html><body></body></html>`, "https://x.bandcamp.com/album/t"), "https://x.bandcamp.com/album/t")
	if album.Artist != "" || album.Bio != "" {
		t.Errorf("expected empty album, got %+v", album)
	}
}

func TestFixJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "fix URL concatenation",
			input: `url: "http://example.bandcamp.com" + "/album/test",`,
			want:  `url: "http://example.bandcamp.com/album/test",`,
		},
		{
			name:  "no change needed",
			input: `url: "http://example.bandcamp.com/album/test",`,
			want:  `url: "http://example.bandcamp.com/album/test",`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fixJSON(tt.input)
			if got != tt.want {
				t.Errorf("fixJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanAlbumURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://a.bandcamp.com/album/x?from=discover_page", "https://a.bandcamp.com/album/x"},
		{"https://a.bandcamp.com/album/x", "https://a.bandcamp.com/album/x"},
		{"https://a.bandcamp.com/album/x/", "https://a.bandcamp.com/album/x/"},
		{"https://a.bandcamp.com/album/x#tracks", "https://a.bandcamp.com/album/x"},
		{"  https://a.bandcamp.com/track/y?x=1  ", "https://a.bandcamp.com/track/y"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CleanAlbumURL(tt.input); got != tt.want {
				t.Errorf("CleanAlbumURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDiscoverURL(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"", "https://bandcamp.com/discover?s=rand"},
		{"ambient", "https://bandcamp.com/discover/ambient?s=rand"},
		{"hip-hop-rap", "https://bandcamp.com/discover/hip-hop-rap?s=rand"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := DiscoverURL(tt.tag); got != tt.want {
				t.Errorf("DiscoverURL(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestLinkSet(t *testing.T) {
	s := NewLinkSet()

	if n := s.Add("https://a.bandcamp.com/album/x?from=discover", "https://b.bandcamp.com/album/y", ""); n != 2 {
		t.Errorf("first Add() = %d, want 2", n)
	}
	if n := s.Add("https://a.bandcamp.com/album/x", "https://c.bandcamp.com/album/z?s=1"); n != 1 {
		t.Errorf("second Add() = %d, want 1", n)
	}

	want := []string{
		"https://a.bandcamp.com/album/x",
		"https://b.bandcamp.com/album/y",
		"https://c.bandcamp.com/album/z",
	}
	if got := s.URLs(); !reflect.DeepEqual(got, want) {
		t.Errorf("URLs() = %v, want %v", got, want)
	}
}

func TestAlbumURLs(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		pageURL string
		want    []string
		wantErr bool
	}{
		{
			name: "music page",
			html: `<html><body>
				<a href="/album/first-album">first</a>
				<a href="/album/first-album?action=buy">first again</a>
				<a href="/track/single-track">single</a>
				<a href="/merch">merch</a>
			</body></html>`,
			pageURL: "https://artist.bandcamp.com/music",
			want: []string{
				"https://artist.bandcamp.com/album/first-album",
				"https://artist.bandcamp.com/track/single-track",
			},
		},
		{
			name: "single album artist page",
			html: `<html><body>
				<div id="discography"></div>
				<a href="/album/other">other</a>
			</body></html>`,
			pageURL: "https://artist.bandcamp.com/album/only-album",
			want:    []string{"https://artist.bandcamp.com/album/only-album"},
		},
		{
			name:    "no albums found",
			html:    `<html><body>No music here</body></html>`,
			pageURL: "https://artist.bandcamp.com/music",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			urls, err := AlbumURLs(mustParse(t, tt.html, tt.pageURL))

			if tt.wantErr {
				if !errors.Is(err, ErrNoAlbumFound) {
					t.Errorf("err = %v, want ErrNoAlbumFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(urls, tt.want) {
				t.Errorf("AlbumURLs() = %v, want %v", urls, tt.want)
			}
		})
	}
}

func TestDiscography_Expand(t *testing.T) {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/music", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		fmt.Fprint(w, `<a href="/album/a">a</a><a href="/album/b">b</a>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	disco := NewDiscography(http.NewClient(http.Options{}))
	ctx := context.Background()

	t.Run("artist root expands", func(t *testing.T) {
		urls, err := disco.Expand(ctx, server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{server.URL + "/album/a", server.URL + "/album/b"}
		if !reflect.DeepEqual(urls, want) {
			t.Errorf("Expand() = %v, want %v", urls, want)
		}
	})

	t.Run("album URL passes through", func(t *testing.T) {
		urls, err := disco.Expand(ctx, "https://x.bandcamp.com/album/y?from=search")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(urls, []string{"https://x.bandcamp.com/album/y"}) {
			t.Errorf("Expand() = %v", urls)
		}
	})

	t.Run("invalid URL", func(t *testing.T) {
		if _, err := disco.Expand(ctx, "not a url"); err == nil {
			t.Error("expected error but got none")
		}
	})
}
