package codec

import (
	"fmt"

	"asn1codec.dev/asn1"
	"asn1codec.dev/asn1/ber"
	"asn1codec.dev/asn1/oer"
	"asn1codec.dev/asn1/per"
)

// Encode writes v into a fresh byte slice under rule, using cfg's depth
// setting (cfg.Strict is not consulted). For [asn1.RuleBER]/[asn1.RuleCER]/[asn1.RuleDER], v is
// marshalled by reflection via [ber.Marshal] (CER/DER route through the same
// BER encoder - see DESIGN.md). For the PER/OER family, v must implement
// [asn1.Encode]; its own Tag/Constraints/Identifier are used, per
// [asn1.EncodeValue].
func Encode[T any](cfg Config, rule asn1.CodecRule, v T) ([]byte, error) {
	b, err := encodeRule(cfg, rule, v)
	if cfg.Metrics != nil {
		cfg.Metrics.ObserveEncode(rule, len(b), err)
	}
	return b, err
}

func encodeRule(cfg Config, rule asn1.CodecRule, v any) ([]byte, error) {
	switch rule {
	case asn1.RuleBER, asn1.RuleCER, asn1.RuleDER:
		return ber.Marshal(v)
	case asn1.RuleUnalignedPER, asn1.RuleAlignedPER:
		ev, ok := v.(asn1.Encode)
		if !ok {
			return nil, fmt.Errorf("codec: %T does not implement asn1.Encode", v)
		}
		e := per.NewEncoder(rule == asn1.RuleAlignedPER)
		if cfg.MaxDepth > 0 {
			e.SetMaxDepth(int(cfg.MaxDepth))
		}
		if err := asn1.EncodeValue(e, ev); err != nil {
			return nil, err
		}
		return e.Bytes(), nil
	case asn1.RuleOER, asn1.RuleCOER:
		ev, ok := v.(asn1.Encode)
		if !ok {
			return nil, fmt.Errorf("codec: %T does not implement asn1.Encode", v)
		}
		e := oer.NewEncoder(rule == asn1.RuleCOER)
		if cfg.MaxDepth > 0 {
			e.SetMaxDepth(int(cfg.MaxDepth))
		}
		if err := asn1.EncodeValue(e, ev); err != nil {
			return nil, err
		}
		return e.Bytes(), nil
	default:
		return nil, fmt.Errorf("codec: unsupported rule %s", rule)
	}
}

// Decode reads b into *v under rule, using cfg's depth and remainder
// settings (cfg.Strict is not consulted). For BER/CER/DER, *v is unmarshalled by reflection via
// [ber.Unmarshal], which already rejects trailing bytes unconditionally
// (cfg.DecodeRemainder has no effect on that path - see DESIGN.md). For the
// PER/OER family, *v must implement [asn1.Decode].
func Decode[T any](cfg Config, rule asn1.CodecRule, b []byte, v *T) error {
	n, err := decodeRule(cfg, rule, b, v)
	if cfg.Metrics != nil {
		cfg.Metrics.ObserveDecode(rule, n, err)
	}
	return err
}

func decodeRule(cfg Config, rule asn1.CodecRule, b []byte, v any) (int, error) {
	switch rule {
	case asn1.RuleBER, asn1.RuleCER, asn1.RuleDER:
		if err := ber.Unmarshal(b, v); err != nil {
			return 0, err
		}
		return len(b), nil
	case asn1.RuleUnalignedPER, asn1.RuleAlignedPER:
		dv, ok := v.(asn1.Decode)
		if !ok {
			return 0, fmt.Errorf("codec: %T does not implement asn1.Decode", v)
		}
		d := per.NewDecoder(rule == asn1.RuleAlignedPER, b)
		if cfg.MaxDepth > 0 {
			d.SetMaxDepth(int(cfg.MaxDepth))
		}
		if err := asn1.DecodeValue(d, dv); err != nil {
			return 0, err
		}
		// Remaining is bit-granular; a final partial byte of padding is
		// expected and not a remainder. Anything at or past a whole byte
		// left over is trailing data.
		remBits := d.Remaining()
		consumed := len(b) - (remBits+7)/8
		if !cfg.DecodeRemainder && remBits >= 8 {
			return consumed, fmt.Errorf("codec: %d trailing bit(s) after decoded value", remBits)
		}
		return consumed, nil
	case asn1.RuleOER, asn1.RuleCOER:
		dv, ok := v.(asn1.Decode)
		if !ok {
			return 0, fmt.Errorf("codec: %T does not implement asn1.Decode", v)
		}
		d := oer.NewDecoder(rule == asn1.RuleCOER, b)
		if cfg.MaxDepth > 0 {
			d.SetMaxDepth(int(cfg.MaxDepth))
		}
		if err := asn1.DecodeValue(d, dv); err != nil {
			return 0, err
		}
		consumed := len(b) - d.Remaining()
		if !cfg.DecodeRemainder && d.Remaining() > 0 {
			return consumed, fmt.Errorf("codec: %d trailing byte(s) after decoded value", d.Remaining())
		}
		return consumed, nil
	default:
		return 0, fmt.Errorf("codec: unsupported rule %s", rule)
	}
}
