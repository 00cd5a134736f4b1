package ledanim

// dimming is the brightness curve for the breathe animation, one scale value
// per frame of a half cycle. The curve is brightness = x^2 + 10 for x in
// [0, 15], offset so the trough never fully blanks the strip.
var dimming = [16]uint8{235, 206, 179, 154, 131, 110, 91, 74, 59, 46, 35, 26, 19, 14, 11, 10}
