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
	"fmt"
	"os"
	"strconv"
	"time"
)

// PWM is a pulse width modulated output.
type PWM interface {
	Close()
	// Set the period and the duty cycle as a percentage.
	Set(time.Duration, int) error
}

// HwPwm is a PWM channel of a sysfs pwmchip.
type HwPwm struct {
	chip   int
	unit   int
	base   string
	pFile  *os.File
	dFile  *os.File
	period int64
	duty   int64
}

// NewHwPWM opens channel unit of pwmchip chip.
func NewHwPWM(chip, unit int) (*HwPwm, error) {
	p := new(HwPwm)
	p.chip = chip
	p.unit = unit
	p.base = sysPath("pwm", fmt.Sprintf("pwmchip%d", chip), fmt.Sprintf("pwm%d", unit))
	p.period = -1
	p.duty = -1

	pName := p.base + "/period"
	if err := export(pName, p.chipFile("export"), unit); err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	var err error
	p.pFile, err = os.OpenFile(pName, os.O_RDWR, 0600)
	if err != nil {
		p.unexport()
		return nil, err
	}
	dName := p.base + "/duty_cycle"
	if err := verifyFile(dName); err != nil {
		p.pFile.Close()
		p.unexport()
		return nil, err
	}
	p.dFile, err = os.OpenFile(dName, os.O_RDWR, 0600)
	if err != nil {
		p.pFile.Close()
		p.unexport()
		return nil, err
	}
	// Start switched off.
	if err := p.Set(time.Millisecond, 0); err != nil {
		p.Close()
		return nil, err
	}
	if err := writeFile(p.base+"/enable", "1"); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *HwPwm) String() string {
	return fmt.Sprintf("pwmchip%d/pwm%d", p.chip, p.unit)
}

func (p *HwPwm) chipFile(name string) string {
	return sysPath("pwm", fmt.Sprintf("pwmchip%d", p.chip), name)
}

func (p *HwPwm) unexport() {
	unexport(p.chipFile("unexport"), p.unit)
}

// Close disables the channel and releases it.
func (p *HwPwm) Close() {
	writeFile(p.base+"/enable", "0")
	p.pFile.Close()
	p.dFile.Close()
	p.unexport()
}

// Set sets the PWM parameters.
func (p *HwPwm) Set(period time.Duration, duty int) error {
	if duty < 0 || duty > 100 {
		return fmt.Errorf("%s: %d: invalid duty cycle percentage", p, duty)
	}
	pNano := period.Nanoseconds()
	if pNano < 15 {
		return fmt.Errorf("%s: invalid period %v", p, period)
	}
	dNano := pNano * int64(duty) / 100
	// The duty cycle must never exceed the current period, so the
	// order of writing the two depends on which way they move.
	if dNano > p.period {
		if err := p.write(p.pFile, pNano); err != nil {
			return err
		}
		if err := p.write(p.dFile, dNano); err != nil {
			return err
		}
	} else {
		if dNano != p.duty {
			if err := p.write(p.dFile, dNano); err != nil {
				return err
			}
		}
		if pNano != p.period {
			if err := p.write(p.pFile, pNano); err != nil {
				return err
			}
		}
	}
	p.period = pNano
	p.duty = dNano
	return nil
}

func (p *HwPwm) write(f *os.File, v int64) error {
	if _, err := f.WriteAt([]byte(strconv.FormatInt(v, 10)), 0); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return nil
}
