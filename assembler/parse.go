package assembler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Urethramancer/arm11/cpu"
)

// Mnemonic represents a parsed instruction mnemonic: the base operation,
// the condition suffix and the optional s (set flags) or b (byte) suffix.
type Mnemonic struct {
	Base     string
	Cond     cpu.Condition
	SetFlags bool
	Byte     bool
}

var dataProcOps = map[string]cpu.Opcode{
	"and": cpu.OpAND, "eor": cpu.OpEOR, "sub": cpu.OpSUB, "rsb": cpu.OpRSB,
	"add": cpu.OpADD, "adc": cpu.OpADC, "sbc": cpu.OpSBC, "rsc": cpu.OpRSC,
	"tst": cpu.OpTST, "teq": cpu.OpTEQ, "cmp": cpu.OpCMP, "cmn": cpu.OpCMN,
	"orr": cpu.OpORR, "mov": cpu.OpMOV, "bic": cpu.OpBIC, "mvn": cpu.OpMVN,
}

var shiftOps = map[string]cpu.ShiftType{
	"lsl": cpu.ShiftLSL, "lsr": cpu.ShiftLSR, "asr": cpu.ShiftASR, "ror": cpu.ShiftROR,
}

var conditions = map[string]cpu.Condition{
	"eq": cpu.CondEQ, "ne": cpu.CondNE, "cs": cpu.CondCS, "cc": cpu.CondCC,
	"mi": cpu.CondMI, "pl": cpu.CondPL, "vs": cpu.CondVS, "vc": cpu.CondVC,
	"hi": cpu.CondHI, "ls": cpu.CondLS, "ge": cpu.CondGE, "lt": cpu.CondLT,
	"gt": cpu.CondGT, "le": cpu.CondLE, "al": cpu.CondAL,
}

// mnemonicBases is ordered longest first so "bl" is tried before "b" and
// the suffix check settles ambiguous cases like bls (b + ls) vs bl + s.
var mnemonicBases = []string{
	"and", "eor", "sub", "rsb", "add", "adc", "sbc", "rsc",
	"tst", "teq", "cmp", "cmn", "orr", "mov", "bic", "mvn",
	"mul", "mla", "ldr", "str",
	"lsl", "lsr", "asr", "ror",
	"bl", "b",
}

// ParseMnemonic splits an instruction like "addeqs" into base "add",
// condition EQ and the set-flags suffix. Bases are tried longest first
// and a candidate is only accepted if its suffix parses for that base.
func ParseMnemonic(s string) (Mnemonic, error) {
	lc := strings.ToLower(s)
	for _, base := range mnemonicBases {
		if !strings.HasPrefix(lc, base) {
			continue
		}
		mn, ok := parseSuffix(base, lc[len(base):])
		if ok {
			return mn, nil
		}
	}
	return Mnemonic{}, fmt.Errorf("unknown instruction: %s", s)
}

func parseSuffix(base, rest string) (Mnemonic, bool) {
	mn := Mnemonic{Base: base, Cond: cpu.CondAL}
	if len(rest) >= 2 {
		if cond, ok := conditions[rest[:2]]; ok {
			mn.Cond = cond
			rest = rest[2:]
		}
	}
	switch rest {
	case "":
		return mn, true
	case "s":
		mn.SetFlags = true
		return mn, allowsSetFlags(base)
	case "b":
		mn.Byte = true
		return mn, base == "ldr" || base == "str"
	}
	return mn, false
}

func allowsSetFlags(base string) bool {
	if op, ok := dataProcOps[base]; ok {
		return !op.IsComparison()
	}
	switch base {
	case "mul", "mla", "lsl", "lsr", "asr", "ror":
		return true
	}
	return false
}

var (
	reRegister = regexp.MustCompile(`(?i)^r(1[0-5]|[0-9])$`)
	reLabel    = regexp.MustCompile(`(?i)^[a-z_][a-z0-9_]*$`)
)

// parseReg accepts r0..r15 and the sp, lr and pc aliases.
func parseReg(s string) (cpu.Reg, error) {
	switch strings.ToLower(trim(s)) {
	case "sp":
		return 13, nil
	case "lr":
		return cpu.LR, nil
	case "pc":
		return cpu.PC, nil
	}
	m := reRegister.FindStringSubmatch(trim(s))
	if m == nil {
		return 0, fmt.Errorf("invalid register: %s", s)
	}
	n, _ := strconv.Atoi(m[1])
	return cpu.Reg(n), nil
}

// parseConstant converts a numeric literal, decimal or 0x hexadecimal,
// optionally negative, with or without a leading #.
func parseConstant(s string) (int64, error) {
	s = strings.TrimPrefix(trim(s), "#")
	val, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number format: %s", s)
	}
	return val, nil
}

// parseOperand2 converts the shifted-operand tail of a data processing
// instruction: an immediate, a register, or a register with a shift part.
func parseOperand2(parts []string) (cpu.Operand2, error) {
	if len(parts) == 0 {
		return cpu.Operand2{}, fmt.Errorf("missing operand")
	}
	if strings.HasPrefix(parts[0], "#") {
		if len(parts) > 1 {
			return cpu.Operand2{}, fmt.Errorf("unexpected operand after immediate: %s", parts[1])
		}
		val, err := parseConstant(parts[0])
		if err != nil {
			return cpu.Operand2{}, err
		}
		return cpu.NewImmediate(uint32(val))
	}

	rm, err := parseReg(parts[0])
	if err != nil {
		return cpu.Operand2{}, err
	}
	op2 := cpu.RegOperand(rm)
	if len(parts) == 1 {
		return op2, nil
	}
	if len(parts) > 2 {
		return cpu.Operand2{}, fmt.Errorf("unexpected operand: %s", parts[2])
	}
	return parseShiftPart(op2, parts[1])
}

// parseShiftPart fills in the shift of a register operand from text like
// "lsl #2", "asr r3" or "rrx".
func parseShiftPart(op2 cpu.Operand2, s string) (cpu.Operand2, error) {
	fields := strings.Fields(s)
	if len(fields) == 1 && strings.EqualFold(fields[0], "rrx") {
		op2.Shift = cpu.ShiftROR
		op2.Amount = 0
		return op2, nil
	}
	if len(fields) != 2 {
		return cpu.Operand2{}, fmt.Errorf("invalid shift: %s", s)
	}
	shift, ok := shiftOps[strings.ToLower(fields[0])]
	if !ok {
		return cpu.Operand2{}, fmt.Errorf("invalid shift type: %s", fields[0])
	}
	op2.Shift = shift

	if strings.HasPrefix(fields[1], "#") {
		amount, err := shiftAmount(shift, fields[1])
		if err != nil {
			return cpu.Operand2{}, err
		}
		op2.Amount = amount
		return op2, nil
	}
	rs, err := parseReg(fields[1])
	if err != nil {
		return cpu.Operand2{}, err
	}
	op2.ByReg = true
	op2.Rs = rs
	return op2, nil
}

// shiftAmount validates a constant shift amount for its shift type.
// lsr and asr encode a shift of 32 as amount 0; lsl 0 is the identity and
// ror 0 would encode rrx, so 32 is not expressible for either.
func shiftAmount(shift cpu.ShiftType, s string) (uint8, error) {
	val, err := parseConstant(s)
	if err != nil {
		return 0, err
	}
	max := int64(31)
	if shift == cpu.ShiftLSR || shift == cpu.ShiftASR {
		max = 32
	}
	min := int64(0)
	if shift != cpu.ShiftLSL {
		min = 1
	}
	if val < min || val > max {
		return 0, cpu.EncodingRangeError{Field: "shift amount", Value: val, Min: min, Max: max}
	}
	if val == 32 {
		val = 0
	}
	return uint8(val), nil
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
