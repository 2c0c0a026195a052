package inputtype

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestNormalizeRange(t *testing.T) {
	tests := []struct {
		name             string
		min, max         float64
		wantMin, wantMax float64
	}{
		{name: "ordered", min: 0, max: 10, wantMin: 0, wantMax: 10},
		{name: "equal widens max", min: 5, max: 5, wantMin: 5, wantMax: 55},
		{name: "equal negative", min: -20, max: -20, wantMin: -20, wantMax: 30},
		{name: "inverted swaps", min: 10, max: 2, wantMin: 2, wantMax: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := NormalizeRange(tt.min, tt.max)
			if gotMin != tt.wantMin || gotMax != tt.wantMax {
				t.Errorf("NormalizeRange(%v, %v) = (%v, %v), want (%v, %v)",
					tt.min, tt.max, gotMin, gotMax, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestSliderRangeDefaultsAndMidpoint(t *testing.T) {
	r := SliderRange(nil)
	if r.Min != 0 || r.Max != 100 || r.Integer {
		t.Fatalf("SliderRange(nil) = %+v, want 0..100 float", r)
	}
	if r.Midpoint() != 50 {
		t.Errorf("Midpoint() = %v, want 50", r.Midpoint())
	}

	r = SliderRange(Config{KeyType: "int", KeyMin: 3, KeyMax: 3})
	if r.Max != 53 {
		t.Errorf("expected widened max 53, got %v", r.Max)
	}
	if r.Midpoint() != 28 {
		t.Errorf("integer Midpoint() = %v, want 28", r.Midpoint())
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		cfg     Config
		want    Config
		wantErr bool
	}{
		{
			name: "slider normalized",
			kind: Slider,
			cfg:  Config{KeyType: "int", KeyMin: 10.0, KeyMax: 1.0},
			want: Config{KeyType: "int", KeyMin: 1.0, KeyMax: 10.0},
		},
		{
			name: "slider defaults",
			kind: Slider,
			cfg:  nil,
			want: Config{KeyType: "float", KeyMin: 0.0, KeyMax: 100.0},
		},
		{name: "slider bad type", kind: Slider, cfg: Config{KeyType: "double"}, wantErr: true},
		{name: "slider bad bound", kind: Slider, cfg: Config{KeyMin: "low"}, wantErr: true},
		{name: "slider unknown key", kind: Slider, cfg: Config{"step": 1}, wantErr: true},
		{
			name: "form boxes cleaned",
			kind: Form,
			cfg:  Config{KeyBoxes: []any{" Gym ", "Run;Walk"}},
			want: Config{KeyBoxes: []string{"Gym", "Run_Walk"}},
		},
		{
			name: "form default boxes",
			kind: Form,
			cfg:  Config{},
			want: Config{KeyBoxes: []string{"Done"}},
		},
		{name: "form empty list", kind: Form, cfg: Config{KeyBoxes: []any{}}, wantErr: true},
		{name: "form duplicate", kind: Form, cfg: Config{KeyBoxes: []string{"a", "a"}}, wantErr: true},
		{name: "form non string", kind: Form, cfg: Config{KeyBoxes: []any{1}}, wantErr: true},
		{name: "text empty", kind: Text, cfg: nil, want: nil},
		{name: "rating with config", kind: Rating, cfg: Config{"max": 10}, wantErr: true},
		{name: "unknown kind", kind: Kind("dial"), cfg: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateConfig(tt.kind, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("expected *ConfigError, got %T", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ValidateConfig() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeValue(t *testing.T) {
	formCfg := Config{KeyBoxes: []string{"Gym", "Run", "Swim"}}

	tests := []struct {
		name    string
		kind    Kind
		cfg     Config
		wire    any
		want    Value
		wantErr bool
	}{
		{name: "slider string", kind: Slider, wire: "4.5", want: NumberValue{Value: 4.5}},
		{name: "slider number", kind: Slider, wire: 7.0, want: NumberValue{Value: 7}},
		{name: "slider int", kind: Slider, cfg: Config{KeyType: "int"}, wire: "7", want: NumberValue{Value: 7, Integer: true}},
		{name: "slider int rejects fraction", kind: Slider, cfg: Config{KeyType: "int"}, wire: "7.5", wantErr: true},
		{name: "slider garbage", kind: Slider, wire: "lots", wantErr: true},
		{name: "slider int too large", kind: Slider, cfg: Config{KeyType: "int"}, wire: "1e20", wantErr: true},
		{name: "slider int too small", kind: Slider, cfg: Config{KeyType: "int"}, wire: -1e20, wantErr: true},
		{name: "slider int at limit", kind: Slider, cfg: Config{KeyType: "int"}, wire: float64(MaxSliderInteger), want: NumberValue{Value: MaxSliderInteger, Integer: true}},
		{name: "slider float large", kind: Slider, wire: "1e20", want: NumberValue{Value: 1e20}},
		{name: "text", kind: Text, wire: "felt good", want: TextValue("felt good")},
		{name: "text not string", kind: Text, wire: 3.0, wantErr: true},
		{name: "form ordered by config", kind: Form, cfg: formCfg, wire: "Swim;Gym", want: SelectionValue{"Gym", "Swim"}},
		{name: "form empty", kind: Form, cfg: formCfg, wire: "", want: SelectionValue{}},
		{name: "form list", kind: Form, cfg: formCfg, wire: []any{"Run"}, want: SelectionValue{"Run"}},
		{name: "form unknown box", kind: Form, cfg: formCfg, wire: "Gym;Yoga", wantErr: true},
		{name: "time", kind: Time, wire: "01:30:05", want: DurationValue(time.Hour + 30*time.Minute + 5*time.Second)},
		{name: "time bad minutes", kind: Time, wire: "01:75:00", wantErr: true},
		{name: "time bad shape", kind: Time, wire: "90", wantErr: true},
		{name: "time hours overflow", kind: Time, wire: "3000000:00:00", wantErr: true},
		{name: "time many hours", kind: Time, wire: "2000000:00:00", want: DurationValue(2000000 * time.Hour)},
		{name: "rating", kind: Rating, wire: "4", want: RatingValue(4)},
		{name: "rating number", kind: Rating, wire: 2.0, want: RatingValue(2)},
		{name: "rating out of range", kind: Rating, wire: "6", wantErr: true},
		{name: "rating zero", kind: Rating, wire: "0", wantErr: true},
		{name: "missing", kind: Rating, wire: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeValue(tt.kind, tt.cfg, tt.wire)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var valErr *ValueError
				if !errors.As(err, &valErr) {
					t.Errorf("expected *ValueError, got %T", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeStoredValueDropsUnknownBoxes(t *testing.T) {
	cfg := Config{KeyBoxes: []any{"Gym", "Run"}}
	got, err := DecodeStoredValue(Form, cfg, "Yoga;Run")
	if err != nil {
		t.Fatalf("DecodeStoredValue() error = %v", err)
	}
	if !reflect.DeepEqual(got, SelectionValue{"Run"}) {
		t.Errorf("DecodeStoredValue() = %#v, want [Run]", got)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	formCfg := Config{KeyBoxes: []string{"a", "b", "c"}}
	cases := []struct {
		kind  Kind
		cfg   Config
		value Value
	}{
		{Slider, nil, NumberValue{Value: 3.25}},
		{Slider, Config{KeyType: "int"}, NumberValue{Value: -4, Integer: true}},
		{Text, nil, TextValue("  spaced  ")},
		{Form, formCfg, SelectionValue{"a", "c"}},
		{Form, formCfg, SelectionValue{}},
		{Time, nil, DurationValue(25*time.Hour + 59*time.Second)},
		{Rating, nil, RatingValue(5)},
	}

	for _, c := range cases {
		wire := EncodeValue(c.value)
		if _, ok := wire.(string); !ok {
			t.Errorf("EncodeValue(%#v) = %#v, want string", c.value, wire)
		}
		back, err := DecodeValue(c.kind, c.cfg, wire)
		if err != nil {
			t.Errorf("DecodeValue(%q) error = %v", wire, err)
			continue
		}
		if !reflect.DeepEqual(back, c.value) {
			t.Errorf("round trip %#v -> %q -> %#v", c.value, wire, back)
		}
	}
}

func TestToNumber(t *testing.T) {
	if n, _ := ToNumber(NumberValue{Value: 2.5}); n != 2.5 {
		t.Errorf("slider ToNumber = %v", n)
	}
	if n, _ := ToNumber(DurationValue(90 * time.Second)); n != 90 {
		t.Errorf("time ToNumber = %v, want seconds", n)
	}
	if n, _ := ToNumber(RatingValue(3)); n != 3 {
		t.Errorf("rating ToNumber = %v", n)
	}
	if _, err := ToNumber(TextValue("x")); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("text ToNumber error = %v, want ErrNotNumeric", err)
	}
	if _, err := ToNumber(SelectionValue{"a"}); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("form ToNumber error = %v, want ErrNotNumeric", err)
	}
}

func TestReducers(t *testing.T) {
	sum, err := ReducerFor(Slider)
	if err != nil {
		t.Fatal(err)
	}
	if got := sum.Reduce([]float64{10, 15}); got != 25 {
		t.Errorf("slider reduce = %v, want 25", got)
	}

	mean, err := ReducerFor(Rating)
	if err != nil {
		t.Fatal(err)
	}
	if got := mean.Reduce([]float64{2, 4, 3}); got != 3 {
		t.Errorf("rating reduce = %v, want 3", got)
	}
	if got := mean.Reduce(nil); got != 0 {
		t.Errorf("empty bucket = %v, want 0", got)
	}

	if r, _ := ReducerFor(Time); r != (Sum{}) {
		t.Errorf("time reducer = %T, want Sum", r)
	}
	for _, kind := range []Kind{Text, Form} {
		if _, err := ReducerFor(kind); !errors.Is(err, ErrNotAggregatable) {
			t.Errorf("ReducerFor(%s) error = %v, want ErrNotAggregatable", kind, err)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(" " + string(k) + " ")
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k, got, err)
		}
	}
	if _, err := ParseKind("knob"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if !Rating.Chartable() || Text.Chartable() || Form.Chartable() {
		t.Error("unexpected Chartable() result")
	}
}

func TestDefaultValue(t *testing.T) {
	if v := DefaultValue(Slider, Config{KeyMin: 0, KeyMax: 10}); v != (NumberValue{Value: 5}) {
		t.Errorf("slider default = %#v", v)
	}
	if v := DefaultValue(Time, nil); EncodeValue(v) != "00:00:00" {
		t.Errorf("time default = %v", EncodeValue(v))
	}
}

func TestEncodeValueRoundTripsLimits(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		cfg  Config
		wire string
	}{
		{name: "largest integer slider", kind: Slider, cfg: Config{KeyType: "int"}, wire: "9007199254740992"},
		{name: "smallest integer slider", kind: Slider, cfg: Config{KeyType: "int"}, wire: "-9007199254740992"},
		{name: "longest time", kind: Time, wire: "2562046:59:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := DecodeValue(tt.kind, tt.cfg, tt.wire)
			if err != nil {
				t.Fatalf("DecodeValue() error = %v", err)
			}
			if got := EncodeValue(v); got != tt.wire {
				t.Errorf("EncodeValue() = %v, want %s", got, tt.wire)
			}
			if n, err := ToNumber(v); err != nil || (tt.kind == Time && n < 0) {
				t.Errorf("ToNumber() = %v, %v", n, err)
			}
		})
	}
}
