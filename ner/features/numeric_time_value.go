package features

import (
	"strings"

	"github.com/anglisano/nametag/ner/model"
)

// NumericTimeValue classifies purely-numeric tokens (and HH.MM / HH:MM
// pairs) into hour, minute, day, month, year and generic time bands, per
// spec.md §4.5. Every threshold check below is independent, not
// else-if: a token satisfying several ranges (e.g. "12") emits all of
// them, exactly like the original feature_processor_instances.cpp.
type NumericTimeValue struct {
	Base
	hour, minute, time, day, month, year int32
}

func (p *NumericTimeValue) Parse(window int32, args []string, entities *model.EntityMap, total *int32) error {
	if err := p.Base.Parse(window, args, entities, total); err != nil {
		return err
	}
	p.reserve(total)
	return nil
}

func (p *NumericTimeValue) Load(dec *model.Decoder) error {
	if err := p.Base.Load(dec); err != nil {
		return err
	}
	var err error
	if p.hour, err = dec.Next4B(); err != nil {
		return err
	}
	if p.minute, err = dec.Next4B(); err != nil {
		return err
	}
	if p.time, err = dec.Next4B(); err != nil {
		return err
	}
	if p.day, err = dec.Next4B(); err != nil {
		return err
	}
	if p.month, err = dec.Next4B(); err != nil {
		return err
	}
	if p.year, err = dec.Next4B(); err != nil {
		return err
	}
	return nil
}

func (p *NumericTimeValue) Save(enc *model.Encoder) {
	p.Base.Save(enc)
	enc.Add4B(p.hour)
	enc.Add4B(p.minute)
	enc.Add4B(p.time)
	enc.Add4B(p.day)
	enc.Add4B(p.month)
	enc.Add4B(p.year)
}

func (p *NumericTimeValue) reserve(total *int32) {
	p.hour = p.Lookup("H", total)
	p.minute = p.Lookup("M", total)
	p.time = p.Lookup("t", total)
	p.day = p.Lookup("d", total)
	p.month = p.Lookup("m", total)
	p.year = p.Lookup("y", total)
}

// leadingDigits scans s from the start for an ASCII digit run, returning
// its integer value, whether any digit was found, and the rest of s.
func leadingDigits(s string) (num int, ok bool, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		num = num*10 + int(s[i]-'0')
		i++
	}
	return num, i > 0, s[i:]
}

func (p *NumericTimeValue) ProcessSentence(sent *model.Sentence, total *int32, _ *strings.Builder) {
	for i, w := range sent.Words {
		num, ok, rest := leadingDigits(w.Form)
		if !ok {
			continue
		}
		wholeToken := rest == ""
		if wholeToken {
			if num < 24 {
				ApplyInWindow(sent, i, p.hour, p.Window)
			}
			if num < 60 {
				ApplyInWindow(sent, i, p.minute, p.Window)
			}
			if num >= 1 && num <= 31 {
				ApplyInWindow(sent, i, p.day, p.Window)
			}
			if num >= 1 && num <= 12 {
				ApplyInWindow(sent, i, p.month, p.Window)
			}
			if num >= 1000 && num <= 2200 {
				ApplyInWindow(sent, i, p.year, p.Window)
			}
			continue
		}
		if num < 24 && (rest[0] == '.' || rest[0] == ':') {
			num2, ok2, rest2 := leadingDigits(rest[1:])
			if ok2 && rest2 == "" && num2 < 60 {
				ApplyInWindow(sent, i, p.time, p.Window)
			}
		}
	}
}
