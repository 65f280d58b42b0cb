package host

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/user/clip-trimmer/trim"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestThemeOrDefault(t *testing.T) {
	if got := (Args{}).ThemeOrDefault(); got != DefaultTheme() {
		t.Errorf("nil theme = %+v, want default", got)
	}
	a := Args{Theme: &Theme{Base: "dark", PrimaryColor: "#00FF00"}}
	got := a.ThemeOrDefault()
	if got.Base != "dark" || got.PrimaryColor != "#00FF00" {
		t.Errorf("supplied fields lost: %+v", got)
	}
	if got.TextColor != DefaultTheme().TextColor {
		t.Errorf("TextColor = %q, want default", got.TextColor)
	}
}

func TestChanBridge(t *testing.T) {
	b := NewChanBridge()
	if !b.Deliver(Args{VideoURL: "a.mp4"}) {
		t.Fatal("first Deliver rejected")
	}
	if b.Deliver(Args{VideoURL: "b.mp4"}) {
		t.Fatal("second Deliver accepted")
	}
	a, err := b.Args(context.Background())
	if err != nil || a.VideoURL != "a.mp4" {
		t.Fatalf("Args() = %+v, %v", a, err)
	}

	res := trim.Result{Start: 1, End: 119, ShouldRefreshTaskList: true}
	if err := b.Emit(context.Background(), res); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := b.Emit(context.Background(), res); !errors.Is(err, ErrAlreadyEmitted) {
		t.Fatalf("second Emit: err = %v, want ErrAlreadyEmitted", err)
	}
	select {
	case got := <-b.Results():
		if got != res {
			t.Errorf("result = %+v, want %+v", got, res)
		}
	default:
		t.Fatal("no result delivered")
	}
}

func TestChanBridge_ArgsContext(t *testing.T) {
	b := NewChanBridge()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := b.Args(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestStdioBridge(t *testing.T) {
	in := strings.NewReader("\n" + `{"video_url":"match.mp4","height":12,"waveform_data":[0.1,0.5]}` + "\n")
	var out bytes.Buffer
	b := NewStdioBridge(in, &out)

	a, err := b.Args(context.Background())
	if err != nil {
		t.Fatalf("Args: %v", err)
	}
	if a.VideoURL != "match.mp4" || a.Height != 12 || len(a.WaveformData) != 2 {
		t.Errorf("Args() = %+v", a)
	}

	if err := b.Emit(context.Background(), trim.Result{Start: 1, End: 119, ShouldRefreshTaskList: true}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if got := out.String(); got != `{"start":1,"end":119,"shouldRefreshTaskList":true}`+"\n" {
		t.Errorf("output = %q", got)
	}
	if err := b.Emit(context.Background(), trim.Result{}); !errors.Is(err, ErrAlreadyEmitted) {
		t.Errorf("second Emit: err = %v", err)
	}
}

func TestStdioBridge_NoArgs(t *testing.T) {
	b := NewStdioBridge(strings.NewReader(""), io.Discard)
	if _, err := b.Args(context.Background()); !errors.Is(err, ErrNoArgs) {
		t.Fatalf("err = %v, want ErrNoArgs", err)
	}
}

func TestStdioBridge_BadJSON(t *testing.T) {
	b := NewStdioBridge(strings.NewReader("{nope\n"), io.Discard)
	if _, err := b.Args(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestHTTPBridge_ArgsFlow(t *testing.T) {
	b := NewHTTPBridge(testLogger())
	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/args")
	if err != nil {
		t.Fatalf("GET /args: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET /args before delivery = %d, want 404", resp.StatusCode)
	}

	put := func(body string) int {
		req, _ := http.NewRequest(http.MethodPut, srv.URL+"/args", strings.NewReader(body))
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("PUT /args: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}
	if code := put(`{"height":3}`); code != http.StatusBadRequest {
		t.Fatalf("PUT without video_url = %d, want 400", code)
	}
	if code := put(`{"video_url":"match.mp4"}`); code != http.StatusNoContent {
		t.Fatalf("PUT /args = %d, want 204", code)
	}
	if code := put(`{"video_url":"other.mp4"}`); code != http.StatusConflict {
		t.Fatalf("second PUT /args = %d, want 409", code)
	}

	a, err := b.Args(context.Background())
	if err != nil || a.VideoURL != "match.mp4" {
		t.Fatalf("Args() = %+v, %v", a, err)
	}
}

func TestHTTPBridge_Result(t *testing.T) {
	b := NewHTTPBridge(testLogger())
	h := b.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/result?wait=false", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("poll before emit = %d, want 204", rr.Code)
	}

	got := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/result", nil))
		got <- rr
	}()

	res := trim.Result{Start: 1, End: 119, ShouldRefreshTaskList: true}
	if err := b.Emit(context.Background(), res); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	select {
	case rr := <-got:
		if rr.Code != http.StatusOK {
			t.Fatalf("GET /result = %d", rr.Code)
		}
		var decoded trim.Result
		if err := json.NewDecoder(rr.Body).Decode(&decoded); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if decoded != res {
			t.Errorf("result = %+v, want %+v", decoded, res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("GET /result did not return after Emit")
	}

	if err := b.Emit(context.Background(), res); !errors.Is(err, ErrAlreadyEmitted) {
		t.Errorf("second Emit: err = %v", err)
	}
}

func TestHTTPBridge_Health(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTTPBridge(testLogger()).Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /healthz = %d", rr.Code)
	}
}
