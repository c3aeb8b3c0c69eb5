package workspace

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Marker is appended to every line EditPGConf writes.
const Marker = "# modified by pgext"

var preloadSettings = []string{
	"shared_preload_libraries",
	"session_preload_libraries",
	"local_preload_libraries",
}

// EditPGConf rewrites the preload settings of the postgresql.conf at path.
// shared_preload_libraries becomes the given list; session and local
// preloads are cleared. Commented-out defaults are replaced too.
func EditPGConf(path string, sharedPreloads []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	out, err := RewritePreloads(string(data), sharedPreloads)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RewritePreloads applies the EditPGConf rewrite to conf text. Lines
// longer than 1 MiB are an error.
func RewritePreloads(conf string, sharedPreloads []string) (string, error) {
	var b strings.Builder
	sc := bufio.NewScanner(strings.NewReader(conf))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		switch setting := preloadSetting(line); setting {
		case "":
			b.WriteString(line)
		case "shared_preload_libraries":
			b.WriteString(preloadLine(setting, sharedPreloads))
		default:
			b.WriteString(preloadLine(setting, nil))
		}
		b.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

func preloadSetting(line string) string {
	trimmed := strings.TrimPrefix(line, "#")
	for _, s := range preloadSettings {
		if strings.HasPrefix(trimmed, s+" = ") {
			return s
		}
	}
	return ""
}

func preloadLine(setting string, libs []string) string {
	if len(libs) == 0 {
		return fmt.Sprintf("%s = ''  %s", setting, Marker)
	}
	return fmt.Sprintf("%s = '%s' %s", setting, strings.Join(libs, ","), Marker)
}

// SharedPreloads reads the current shared_preload_libraries value from conf
// text. The last uncommented assignment wins.
func SharedPreloads(conf string) []string {
	var libs []string
	for _, line := range strings.Split(conf, "\n") {
		if !strings.HasPrefix(line, "shared_preload_libraries = ") {
			continue
		}
		v := strings.TrimPrefix(line, "shared_preload_libraries = ")
		if i := strings.Index(v, "#"); i >= 0 {
			v = v[:i]
		}
		v = strings.Trim(strings.TrimSpace(v), "'")
		libs = nil
		for _, lib := range strings.Split(v, ",") {
			if lib = strings.TrimSpace(lib); lib != "" {
				libs = append(libs, lib)
			}
		}
	}
	return libs
}
