package flags

const Verbose = `v`
const Quiet = `q`
const Help = `h`
const Config = `c`
const Tree = `tree`
