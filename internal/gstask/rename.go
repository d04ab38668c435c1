package gstask

import "strconv"

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Rename returns a copy of t in which every value name becomes
// "<Upper(letter_j)><var_index>" (letter_j cycling through a fixed
// 26-letter alphabet per value index j) and every operator name becomes
// "(<lower(letter_i)>)" (letter_i cycling per operator index i). It fails
// with *TooLarge if any index would exceed the alphabet; the receiver is
// left untouched either way.
func (t *Task) Rename() (*Task, error) {
	out := t.DeepCopy()

	for i, v := range out.Variables {
		for j := range v.ValueNames {
			if j >= len(alphabet) {
				return nil, &TooLarge{Field: "value name", Index: j}
			}
			out.Variables[i].ValueNames[j] = string(alphabet[j]-'a'+'A') + strconv.Itoa(i)
		}
	}

	for i := range out.Operators {
		if i >= len(alphabet) {
			return nil, &TooLarge{Field: "operator name", Index: i}
		}
		out.Operators[i].Name = "(" + string(alphabet[i]) + ")"
	}

	if err := out.validate(); err != nil {
		return nil, err
	}
	return out, nil
}
