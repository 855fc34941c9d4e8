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

// Package io drives the clock hardware: sysfs PWM channels for the tube
// dimmer and the buzzer, a software PWM and a push button on GPIO pins.
// The pins themselves are opened with github.com/aamcrae/gpio.
package io

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

// SysRoot is the sysfs class directory holding the pwm tree.
var SysRoot = "/sys/class"

// Setter is an interface for setting an output value on a GPIO,
// such as a *gpio.Gpio from OutputPin.
type Setter interface {
	Set(int) error
}

// Getter reads the level of an input, such as a *gpio.Gpio from Pin
// with no edge detection.
type Getter interface {
	Get() (int, error)
}

const verifyTimeout = 2 * time.Second

// Verify will enable waiting for exported files to become writable.
// This is necessary if the process is not running as root - systemd
// and udev will change the group permissions on the exported files, but
// this takes some time to do.
var Verify = false

func init() {
	// If the user is not root, enable Verify mode
	u, err := user.Current()
	if err == nil && u.Uid != "0" {
		Verify = true
	}
}

func sysPath(elem ...string) string {
	return filepath.Join(append([]string{SysRoot}, elem...)...)
}

// unexport writes a unit number to an unexport file.
func unexport(f string, unit int) error {
	return writeFile(f, strconv.Itoa(unit))
}

// export makes the file f available by writing the unit number to
// expfile, unless f can already be used.
func export(f, expfile string, unit int) error {
	if unix.Access(f, unix.W_OK|unix.R_OK) == nil {
		return nil
	}
	err := writeFile(expfile, strconv.Itoa(unit))
	if err == nil && Verify {
		return verifyFile(f)
	}
	return err
}

// Write a string to an existing file.
func writeFile(fname, s string) error {
	f, err := os.OpenFile(fname, os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write([]byte(s))
	return err
}

// Wait for file to become writable.
func verifyFile(f string) error {
	sl := time.Millisecond
	for tout := time.Duration(0); tout < verifyTimeout; tout += sl {
		if unix.Access(f, unix.W_OK) == nil {
			return nil
		}
		time.Sleep(sl)
	}
	return fmt.Errorf("%s: not writable", f)
}
