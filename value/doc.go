// Package value converts host Go values into the script value model.
//
// [Marshal] is total: every host value maps to some [Value]. Recognized
// categories are checked in a fixed order and the first match wins:
//
//  1. int, int64, float64 and bool pass through.
//  2. Narrower integers widen to int64.
//  3. uint32 widens to int64.
//  4. uint64 becomes int64 when it fits, or its decimal text otherwise.
//  5. float32 is formatted with 32-bit rules and read back as float64.
//  6. big.Int, big.Float, big.Rat and json.Number become decimal text.
//  7. Strings become string values.
//  8. Byte slices become byte buffers, distinct from strings.
//  9. Collections become arrays: [Mapping], [Sequence], iterator functions,
//     yaml.MapSlice, maps (sorted by key), slices and arrays.
//  10. A [Value] passes through unchanged.
//  11. Everything else becomes an [Opaque] handle.
//
// [Value.Native] projects a value back onto plain Go types for the script
// engine, and [Text] renders any such value the way an echo statement does.
package value
