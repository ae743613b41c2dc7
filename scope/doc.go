// Package scope turns rendered output buffers into display data for the
// player UI.
//
// Everything here works on copies obtained from Engine.LastBuffer and never
// touches the audio path.
package scope
