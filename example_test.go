package httptemplate_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/halolabs/httptemplate"
	"github.com/halolabs/httptemplate/codec"
	"github.com/halolabs/httptemplate/template"
)

func ExampleNew() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"msg":"hello"}`)
	}))
	defer ts.Close()

	t, err := httptemplate.New(template.WithTimeout(5 * time.Second))
	if err != nil {
		fmt.Println("build error:", err)
		return
	}

	body, _, err := t.Get(context.Background(), ts.URL, nil)
	if err != nil {
		fmt.Println("get error:", err)
		return
	}

	resp, err := codec.JSON[struct{ Msg string }]().Unmarshal(body)
	if err != nil {
		fmt.Println("decode error:", err)
		return
	}

	fmt.Println(resp.Msg)
	// Output: hello
}
