package uri_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frankli0324/go-rawget/internal/uri"
)

var parseShouldBe = map[string]struct {
	in   string
	want uri.URL
}{
	"HTTP": {
		in:   "http://test.com",
		want: uri.URL{Scheme: uri.HTTP, Host: "test.com", Port: 80},
	},
	"HTTPS": {
		in:   "https://test.com",
		want: uri.URL{Scheme: uri.HTTPS, Host: "test.com", Port: 443},
	},
	"Port": {
		in:   "http://test.com:3000",
		want: uri.URL{Scheme: uri.HTTP, Host: "test.com", Port: 3000},
	},
	"HTTPSPort": {
		in:   "https://test.com:3000",
		want: uri.URL{Scheme: uri.HTTPS, Host: "test.com", Port: 3000},
	},
	"Path": {
		in:   "https://a.test.com/test",
		want: uri.URL{Scheme: uri.HTTPS, Host: "a.test.com", Port: 443, Path: "/test"},
	},
	"PortAndPath": {
		in:   "https://a.test.com:7888/test",
		want: uri.URL{Scheme: uri.HTTPS, Host: "a.test.com", Port: 7888, Path: "/test"},
	},
	"Fragment": {
		in:   "https://a.test.com:7888/test#hallo",
		want: uri.URL{Scheme: uri.HTTPS, Host: "a.test.com", Port: 7888, Path: "/test", Fragment: "hallo"},
	},
	"Query": {
		in: "https://a.test.com:7888/test?test=abc",
		want: uri.URL{
			Scheme: uri.HTTPS, Host: "a.test.com", Port: 7888, Path: "/test",
			Query: uri.Query{{"test", "abc"}}, RawQuery: "test=abc",
		},
	},
	"Queries": {
		in: "https://a.test.com:7888/test?test=abc&test1=well",
		want: uri.URL{
			Scheme: uri.HTTPS, Host: "a.test.com", Port: 7888, Path: "/test",
			Query: uri.Query{{"test", "abc"}, {"test1", "well"}}, RawQuery: "test=abc&test1=well",
		},
	},
	"QueryAndFragment": {
		in: "https://a.test.com:7888/test?test=abc#frag",
		want: uri.URL{
			Scheme: uri.HTTPS, Host: "a.test.com", Port: 7888, Path: "/test",
			Query: uri.Query{{"test", "abc"}}, RawQuery: "test=abc", Fragment: "frag",
		},
	},
	"FragmentBeforeQuery": {
		in: "https://a.test.com:7888/test/abc#frag?test=abc",
		want: uri.URL{
			Scheme: uri.HTTPS, Host: "a.test.com", Port: 7888, Path: "/test/abc",
			Fragment: "frag?test=abc",
		},
	},
	"NoScheme": {
		in:   "example.com/x",
		want: uri.URL{Scheme: uri.HTTP, Host: "example.com", Port: 80, Path: "/x"},
	},
	"UnknownScheme": {
		in:   "ftp://example.com",
		want: uri.URL{Scheme: uri.HTTP, Host: "ftp", Port: 80},
	},
	"UppercaseSchemeNotStripped": {
		in:   "HTTPS://example.com",
		want: uri.URL{Scheme: uri.HTTP, Host: "HTTPS", Port: 80},
	},
	"Empty": {
		in:   "",
		want: uri.URL{Scheme: uri.HTTP, Port: 80},
	},
	"ColonInsidePath": {
		in:   "http://h/a:b",
		want: uri.URL{Scheme: uri.HTTP, Host: "h", Port: 80, Path: "/a:b"},
	},
	"MalformedPort": {
		in:   "https://h:abc/x",
		want: uri.URL{Scheme: uri.HTTPS, Host: "h", Port: 443, Path: "/x"},
	},
	"OverflowPort": {
		in:   "http://h:70000",
		want: uri.URL{Scheme: uri.HTTP, Host: "h", Port: 80},
	},
	"PlusPort": {
		in:   "https://h:+8080/x",
		want: uri.URL{Scheme: uri.HTTPS, Host: "h", Port: 8080, Path: "/x"},
	},
	"LonePlusPort": {
		in:   "https://h:+/x",
		want: uri.URL{Scheme: uri.HTTPS, Host: "h", Port: 443, Path: "/x"},
	},
	"DoublePlusPort": {
		in:   "http://h:++80",
		want: uri.URL{Scheme: uri.HTTP, Host: "h", Port: 80},
	},
	"NegativePort": {
		in:   "http://h:-1",
		want: uri.URL{Scheme: uri.HTTP, Host: "h", Port: 80},
	},
	"EmptyPort": {
		in:   "https://h:",
		want: uri.URL{Scheme: uri.HTTPS, Host: "h", Port: 443},
	},
	"PortOnlyTakesFirstColon": {
		in:   "http://h:1:2",
		want: uri.URL{Scheme: uri.HTTP, Host: "h", Port: 80},
	},
	"DuplicateKeysAndBareKeys": {
		in: "http://h/?a=1&a=2&b&c=",
		want: uri.URL{
			Scheme: uri.HTTP, Host: "h", Port: 80, Path: "/",
			Query: uri.Query{{"a", "1"}, {"a", "2"}, {"b", ""}, {"c", ""}}, RawQuery: "a=1&a=2&b&c=",
		},
	},
	"ValueKeepsLaterEquals": {
		in: "http://h/t?1=33=1",
		want: uri.URL{
			Scheme: uri.HTTP, Host: "h", Port: 80, Path: "/t",
			Query: uri.Query{{"1", "33=1"}}, RawQuery: "1=33=1",
		},
	},
	"EmptyQuery": {
		in: "http://h/t?",
		want: uri.URL{
			Scheme: uri.HTTP, Host: "h", Port: 80, Path: "/t",
			Query: uri.Query{{"", ""}},
		},
	},
}

func TestParse(t *testing.T) {
	for name, cas := range parseShouldBe {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tCase.want, uri.Parse(tCase.in))
		})
	}
}

func TestParseDefaultsWithoutDelimiters(t *testing.T) {
	for _, host := range []string{"test.com", "localhost", "10.0.0.1", ""} {
		for _, prefix := range []string{"http://", "https://", ""} {
			u := uri.Parse(prefix + host)
			assert.Equal(t, host, u.Host)
			assert.Equal(t, u.Scheme.DefaultPort(), u.Port)
			assert.Empty(t, u.Path)
			assert.Empty(t, u.Query)
			assert.Empty(t, u.Fragment)
		}
	}
}

func TestRequestTarget(t *testing.T) {
	cases := map[string]string{
		"http://h":                 "/",
		"http://h/a/b":             "/a/b",
		"http://h/?test=1#frag":    "/?test=1",
		"http://h/t?1=33=1":        "/t?1=33=1",
		"http://h/t?":              "/t?",
		"http://h#frag?x=1":        "/",
		"https://h:8443/p?q=1&q=2": "/p?q=1&q=2",
	}
	for in, want := range cases {
		assert.Equal(t, want, uri.Parse(in).RequestTarget(), in)
	}
}

func TestHostHeader(t *testing.T) {
	assert.Equal(t, "h", uri.Parse("http://h:80/").HostHeader())
	assert.Equal(t, "h", uri.Parse("https://h").HostHeader())
	assert.Equal(t, "h:8080", uri.Parse("http://h:8080").HostHeader())
	assert.Equal(t, "h:80", uri.Parse("https://h:80").HostHeader())
	assert.Equal(t, "[::1]:8080", uri.URL{Scheme: uri.HTTP, Host: "::1", Port: 8080}.HostHeader())
}

func TestQueryLookup(t *testing.T) {
	q := uri.ParseQuery("a=1&b=2&a=3")
	v, ok := q.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	assert.Equal(t, []string{"1", "3"}, q.Values("a"))
	_, ok = q.Get("z")
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	assert.Equal(t, "https://a.test.com:7888/test?x=1#f", uri.Parse("https://a.test.com:7888/test?x=1#f").String())
	assert.Equal(t, "http://h:80", uri.Parse("h").String())
}
