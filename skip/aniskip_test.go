package skip

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFetch(t *testing.T) {
	Convey("Fetch", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/1535/1", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"found":true,"results":[
				{"interval":{"start_time":60.5,"end_time":150.5},"skip_type":"op"},
				{"interval":{"start_time":1300,"end_time":1390},"skip_type":"ed"}]}`)
		})
		mux.HandleFunc("/1/1", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"found":false,"results":[]}`)
		})
		mux.HandleFunc("/2/1", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		})
		mux.HandleFunc("/3/1", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{not json`)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		old := AniskipURL
		AniskipURL = server.URL
		defer func() { AniskipURL = old }()

		Convey("Should map op and ed results onto windows", func() {
			intro, outro, err := Fetch(context.Background(), 1535, 1)
			So(err, ShouldBeNil)
			So(intro.MustGet(), ShouldResemble, Window{Start: 60.5, End: 150.5})
			So(outro.MustGet(), ShouldResemble, Window{Start: 1300, End: 1390})
		})

		Convey("Should return nothing when no data is registered", func() {
			intro, outro, err := Fetch(context.Background(), 1, 1)
			So(err, ShouldBeNil)
			So(intro.IsPresent(), ShouldBeFalse)
			So(outro.IsPresent(), ShouldBeFalse)
		})

		Convey("Should degrade gracefully when upstream fails", func() {
			intro, _, err := Fetch(context.Background(), 2, 1)
			So(err, ShouldBeNil)
			So(intro.IsPresent(), ShouldBeFalse)
		})

		Convey("Should report malformed payloads", func() {
			_, _, err := Fetch(context.Background(), 3, 1)
			So(err, ShouldNotBeNil)
		})
	})
}
