package gate

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		path           string
		wantSkipCaller bool
		wantWebRoute   bool
	}{
		{"/api/auth/login", true, false},
		{"/api/auth/refresh", true, false},
		{"/login", true, false},
		{"/login/app.css", true, false},
		{"/web", false, true},
		{"/web/app.js", false, true},
		{"/api/events/register", false, false},
	}
	for _, c := range cases {
		got := classify(c.path)
		if got.skipCaller != c.wantSkipCaller || got.webRoute != c.wantWebRoute {
			t.Errorf("classify(%q) = %+v, want skipCaller=%v webRoute=%v",
				c.path, got, c.wantSkipCaller, c.wantWebRoute)
		}
	}
}
