/*

Process of optimization

MIR Document (yaml) ->
	parse ->
Typed MIR (mir) ->
	constfold ->
	dce ->
	loops ->
	escape ->
	icache ->
	simd ->
Optimized MIR (mir) + advice (escape, hot calls, vector loops) ->
	format ->
MIR Text

*/
package compiler
