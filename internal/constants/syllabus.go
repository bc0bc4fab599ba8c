package constants

// Syllabus is the canonical chapter catalog, keyed by class then subject.
// Chapter strings in ChapterProgress must match an entry here exactly.
var Syllabus = map[int]map[string][]string{
	11: {
		"Physics": {
			"Physical world & measurement", "Units & dimensions", "Motion in a straight line",
			"Motion in a plane", "Laws of motion", "Work, energy & power",
			"Centre of mass & rotational motion", "Gravitation", "Mechanical properties of solids",
			"Mechanical properties of fluids", "Thermal properties of matter", "Thermodynamics",
			"Kinetic theory", "Oscillations & waves",
		},
		"Chemistry": {
			"Some basic concepts of chemistry", "Structure of atom", "States of matter",
			"Thermodynamics", "Equilibrium", "Classification of elements & periodicity",
			"Chemical bonding & molecular structure", "Basic organic chemistry (GOC)", "Hydrocarbons",
		},
		"Maths": {
			"Sets", "Relations & functions", "Trigonometric functions", "Complex numbers & quadratic equations",
			"Linear inequalities", "Permutations & combinations", "Binomial theorem", "Sequences & series",
			"Straight lines", "Conic sections", "Introduction to 3D geometry", "Limits & derivatives",
			"Mathematical reasoning", "Statistics & probability",
		},
	},
	12: {
		"Physics": {
			"Electrostatics", "Current electricity", "Magnetic effects of current",
			"Electromagnetic induction", "Alternating current", "Electromagnetic waves",
			"Ray optics", "Wave optics", "Dual nature of radiation & matter", "Atoms",
			"Nuclei", "Semiconductor electronics",
		},
		"Chemistry": {
			"Solid state", "Solutions", "Electrochemistry", "Chemical kinetics",
			"Surface chemistry", "General principles of metallurgy", "p-Block elements",
			"d- & f-Block elements", "Coordination compounds", "Haloalkanes & haloarenes",
			"Alcohols, phenols & ethers", "Aldehydes, ketones & carboxylic acids", "Amines",
			"Biomolecules", "Polymers", "Chemistry in everyday life",
		},
		"Maths": {
			"Relations & functions", "Inverse trigonometric functions", "Matrices",
			"Determinants", "Continuity & differentiability", "Applications of derivatives",
			"Integrals", "Applications of integrals", "Differential equations", "Vector algebra",
			"3D geometry", "Linear programming", "Probability",
		},
	},
}

// SyllabusHas reports whether chapter is a catalog entry for the class/subject.
func SyllabusHas(classID int, subject, chapter string) bool {
	for _, c := range Syllabus[classID][subject] {
		if c == chapter {
			return true
		}
	}
	return false
}
