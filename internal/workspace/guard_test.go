package workspace

import "testing"

func TestIsCriticalPath(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		// Unix system locations
		{"/etc/passwd", true},
		{"/bin/sh", true},
		{"/var/log/syslog", true},
		{"/boot/grub/grub.cfg", true},
		{"/home/dev/project/main.go", false},
		// Windows system locations, both separator styles
		{`C:\Windows\System32\x`, true},
		{"C:/Windows/notepad.exe", true},
		{`c:\program files\app\app.exe`, true},
		{`C:\Users\dev\AppData\Roaming\x`, true},
		{`C:\Users\dev\project\main.go`, false},
		// VCS and dependency metadata
		{"/home/dev/project/.git/config", true},
		{".github/workflows/ci.yml", true},
		{"node_modules/left-pad/index.js", true},
		{"/home/dev/project/node_modules/x", true},
		// Lockfiles and secrets
		{"package-lock.json", true},
		{"src/package-lock.json", true},
		{"yarn.lock", true},
		{"/home/dev/.env", true},
		{"/home/dev/.ssh/authorized_keys", true},
		{"/home/dev/.ssh/id_rsa", true},
		{"certs/server.pem", true},
		// Ordinary workspace paths
		{"src/app.ts", false},
		{"README.md", false},
		{"docs/environment.md", false},
	}

	for _, tc := range cases {
		if got := IsCriticalPath(tc.path); got != tc.want {
			t.Errorf("IsCriticalPath(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestGuard_ExtraPatterns(t *testing.T) {
	g := &Guard{Extra: []string{"secrets/", "internal.key"}}

	if !g.IsCritical("/ws/secrets/prod.txt") {
		t.Error("extra pattern 'secrets/' should match")
	}
	if !g.IsCritical(`C:\ws\certs\internal.key`) {
		t.Error("extra pattern should match across separator styles")
	}
	if g.IsCritical("/ws/src/main.go") {
		t.Error("unrelated path should not match")
	}
}

func TestIsCriticalPath_CaseInsensitive(t *testing.T) {
	if !IsCriticalPath("/ETC/passwd") {
		t.Error("matching should be case-insensitive")
	}
	if !IsCriticalPath("PACKAGE-LOCK.JSON") {
		t.Error("basename matching should be case-insensitive")
	}
}
