// Package fontid identifies the typeface of the text in an image.
//
// A page goes through four stages. Preprocess equalises local contrast and
// binarises the page with a global Otsu threshold. Segment cuts the mask
// into connected ink regions. A Normalizer stretches each region onto a
// fixed canvas with ink at GlyphInk. Aggregate adds up the per-glyph
// classifier distributions into a single ranking. A Predictor wires the
// stages to a Classifier and a LabelSet.
//
// Training glyphs for the bundled TemplateClassifier come from a
// GlyphRenderer, which draws characters from TrueType fonts in the same
// convention.
package fontid
