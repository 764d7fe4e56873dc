// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LambertVertexShader transforms lit geometry.
//
//go:embed lambert.vert
var LambertVertexShader string

// LambertFragmentShader shades with sun, ambient and the shadow map.
//
//go:embed lambert.frag
var LambertFragmentShader string

// DepthVertexShader projects shadow casters into light space.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader writes depth only.
//
//go:embed depth.frag
var DepthFragmentShader string
