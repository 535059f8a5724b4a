package system

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rook-computer/splashd/internal/render/pixfmt"
	"github.com/rook-computer/splashd/internal/theme"
)

func TestScreenFromInfo(t *testing.T) {
	rgb565 := varScreenInfo{
		XRes: 320, YRes: 240, BitsPerPixel: 16,
		Red:   fbBitfield{Offset: 11, Length: 5},
		Green: fbBitfield{Offset: 5, Length: 6},
		Blue:  fbBitfield{Offset: 0, Length: 5},
	}
	direct := pixfmt.RGB565
	direct.Visual = pixfmt.DirectColor
	tests := []struct {
		name    string
		v       varScreenInfo
		f       fixScreenInfo
		want    pixfmt.Format
		wantErr bool
	}{
		{"truecolor 565", rgb565, fixScreenInfo{Visual: fbVisualTrueColor, LineLength: 640}, pixfmt.RGB565, false},
		{"padded rows", rgb565, fixScreenInfo{Visual: fbVisualTrueColor, LineLength: 1024}, pixfmt.RGB565, false},
		{"directcolor", rgb565, fixScreenInfo{Visual: fbVisualDirectColor, LineLength: 640}, direct, false},
		{"short line", rgb565, fixScreenInfo{Visual: fbVisualTrueColor, LineLength: 600}, pixfmt.Format{}, true},
		{"planar", rgb565, fixScreenInfo{Type: 1, Visual: fbVisualTrueColor, LineLength: 640}, pixfmt.Format{}, true},
		{"mono visual", rgb565, fixScreenInfo{Visual: 0, LineLength: 640}, pixfmt.Format{}, true},
		{"bad depth", varScreenInfo{XRes: 10, YRes: 10, BitsPerPixel: 4}, fixScreenInfo{Visual: fbVisualPseudoColor, LineLength: 5}, pixfmt.Format{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scr, err := screenFromInfo(&tt.v, &tt.f, false)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if scr.Format != tt.want {
				t.Errorf("format = %v, want %v", scr.Format, tt.want)
			}
			if scr.XRes != 320 || scr.YRes != 240 {
				t.Errorf("resolution = %dx%d", scr.XRes, scr.YRes)
			}
		})
	}
}

func TestShellRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX echo")
	}
	out, err := ShellRunner{}.Output(context.Background(), []string{"echo", "hello"})
	if err != nil {
		t.Skipf("echo not runnable: %v", err)
	}
	if out != "hello\n" {
		t.Errorf("output = %q", out)
	}
	if _, err := (ShellRunner{}).Output(context.Background(), nil); err == nil {
		t.Errorf("empty argv accepted")
	}

	if _, err := os.Stat(theme.Shell); err != nil {
		t.Skipf("no %s: %v", theme.Shell, err)
	}
	out, err = ShellRunner{}.Output(context.Background(), theme.ShellCommand("echo abc | tr a z"))
	if err != nil {
		t.Fatal(err)
	}
	if out != "zbc\n" {
		t.Errorf("pipeline output = %q, want %q", out, "zbc\n")
	}
	if _, err := (ShellRunner{}).Output(context.Background(), theme.ShellCommand("exit 3")); err == nil {
		t.Errorf("failing command reported no error")
	}
}

func TestKernelCmdline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmdline")
	if err := os.WriteFile(path, []byte("quiet splash=silent,theme:gentoo\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := KernelCmdline(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "quiet splash=silent,theme:gentoo" {
		t.Errorf("cmdline = %q", got)
	}
}
