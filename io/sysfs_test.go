// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package io

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeSys creates the named files under a temporary sysfs root.
func fakeSys(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	oldRoot, oldVerify := SysRoot, Verify
	SysRoot, Verify = root, false
	t.Cleanup(func() {
		SysRoot, Verify = oldRoot, oldVerify
	})
	return root
}

func readSys(t *testing.T, root, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(b)
}

func TestHwPwm(t *testing.T) {
	root := fakeSys(t, map[string]string{
		"pwm/pwmchip0/export":          "",
		"pwm/pwmchip0/unexport":        "",
		"pwm/pwmchip0/pwm1/period":     "",
		"pwm/pwmchip0/pwm1/duty_cycle": "",
		"pwm/pwmchip0/pwm1/enable":     "0",
	})
	p, err := NewHwPWM(0, 1)
	if err != nil {
		t.Fatalf("NewHwPWM() error = %v", err)
	}
	if got := readSys(t, root, "pwm/pwmchip0/pwm1/period"); got != "1000000" {
		t.Errorf("period %q", got)
	}
	if got := readSys(t, root, "pwm/pwmchip0/pwm1/duty_cycle"); got != "0" {
		t.Errorf("duty %q", got)
	}
	if got := readSys(t, root, "pwm/pwmchip0/pwm1/enable"); got != "1" {
		t.Errorf("enable %q", got)
	}
	if err := p.Set(time.Millisecond, 50); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := readSys(t, root, "pwm/pwmchip0/pwm1/duty_cycle"); got != "500000" {
		t.Errorf("duty %q", got)
	}
	if err := p.Set(time.Millisecond, 101); err == nil {
		t.Errorf("duty 101 accepted")
	}
	p.Close()
	if got := readSys(t, root, "pwm/pwmchip0/pwm1/enable"); got != "0" {
		t.Errorf("enable after close %q", got)
	}
}
