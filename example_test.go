package rawget

import (
	"context"
	"fmt"
)

func ExampleGet() {
	raw, err := Get(context.Background(), "http://www.example.com/?a=b")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(raw))
}

func ExampleParseURL() {
	u := ParseURL("https://a.test.com:7888/test/abc#frag?test=abc")
	fmt.Println(u.Host, u.Port, u.Path, len(u.Query), u.Fragment)
	// Output: a.test.com 7888 /test/abc 0 frag?test=abc
}
