package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pipe8sim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	It("decodes an all-zero word as Blank", func() {
		in := decoder.Decode(0)
		Expect(in.Category).To(Equal(insts.CategoryBlank))
		Expect(in.Op).To(Equal(insts.OpNone))
	})

	Describe("R-type", func() {
		It("decodes ADD (funct7=0)", func() {
			in := decoder.Decode(insts.Encode(&insts.Instruction{
				Category: insts.CategoryR, Op: insts.OpADD, Rd: 3, Rs1: 1, Rs2: 2,
			}))
			Expect(in.Category).To(Equal(insts.CategoryR))
			Expect(in.Op).To(Equal(insts.OpADD))
			Expect(in.Rd).To(Equal(uint8(3)))
			Expect(in.Rs1).To(Equal(uint8(1)))
			Expect(in.Rs2).To(Equal(uint8(2)))
		})

		It("decodes SUB using funct7=8, not canonical 0x20", func() {
			word := uint32(8)<<25 | uint32(2)<<20 | uint32(1)<<15 | uint32(0)<<12 | uint32(3)<<7 | 0x33
			in := decoder.Decode(word)
			Expect(in.Op).To(Equal(insts.OpSUB))
		})

		It("decodes SLL, SLT, XOR, SRL, OR, AND by funct3", func() {
			ops := []insts.Op{insts.OpSLL, insts.OpSLT, insts.OpXOR, insts.OpSRL, insts.OpOR, insts.OpAND}
			funct3s := []uint32{1, 2, 4, 5, 6, 7}
			for i, op := range ops {
				word := funct3s[i]<<12 | uint32(3)<<7 | 0x33
				in := decoder.Decode(word)
				Expect(in.Op).To(Equal(op))
			}
		})

		It("tags an unrecognized funct7 on funct3=0 as error", func() {
			word := uint32(1)<<25 | 0x33
			in := decoder.Decode(word)
			Expect(in.Op).To(Equal(insts.OpError))
		})
	})

	Describe("I-type", func() {
		It("decodes ADDI", func() {
			in := decoder.Decode(insts.Encode(&insts.Instruction{
				Category: insts.CategoryI, Op: insts.OpADDI, Rd: 1, Rs1: 0, Imm: 5,
			}))
			Expect(in.Op).To(Equal(insts.OpADDI))
			Expect(in.Imm).To(Equal(int32(5)))
		})

		It("decodes all-zero-field ADDI as the NOP alias", func() {
			word := insts.Encode(&insts.Instruction{Category: insts.CategoryI, Op: insts.OpADDI})
			in := decoder.Decode(word)
			Expect(in.Op).To(Equal(insts.OpNOP))
		})

		It("decodes SLTI", func() {
			in := decoder.Decode(insts.Encode(&insts.Instruction{
				Category: insts.CategoryI, Op: insts.OpSLTI, Rd: 1, Rs1: 2, Imm: -3,
			}))
			Expect(in.Op).To(Equal(insts.OpSLTI))
			Expect(in.Imm).To(Equal(int32(-3)))
		})

		It("sign-extends a negative 12-bit immediate", func() {
			in := decoder.Decode(insts.Encode(&insts.Instruction{
				Category: insts.CategoryI, Op: insts.OpADDI, Imm: -1,
			}))
			Expect(in.Imm).To(Equal(int32(-1)))
		})
	})

	Describe("Load / Store", func() {
		It("decodes LW", func() {
			in := decoder.Decode(insts.Encode(&insts.Instruction{
				Category: insts.CategoryLoad, Op: insts.OpLW, Rd: 1, Rs1: 2, Imm: 4,
			}))
			Expect(in.Category).To(Equal(insts.CategoryLoad))
			Expect(in.Op).To(Equal(insts.OpLW))
			Expect(in.Imm).To(Equal(int32(4)))
		})

		It("decodes SW with an S-type immediate split across two fields", func() {
			in := decoder.Decode(insts.Encode(&insts.Instruction{
				Category: insts.CategoryStore, Op: insts.OpSW, Rs1: 2, Rs2: 1, Imm: -8,
			}))
			Expect(in.Category).To(Equal(insts.CategoryStore))
			Expect(in.Op).To(Equal(insts.OpSW))
			Expect(in.Imm).To(Equal(int32(-8)))
			Expect(in.Rs1).To(Equal(uint8(2)))
			Expect(in.Rs2).To(Equal(uint8(1)))
		})
	})

	Describe("Branch", func() {
		It("decodes BEQ/BNE/BLT/BGE by funct3, with an even B-type immediate", func() {
			cases := []struct {
				op      insts.Op
				imm     int32
			}{
				{insts.OpBEQ, 8}, {insts.OpBNE, -16}, {insts.OpBLT, 100}, {insts.OpBGE, -4},
			}
			for _, c := range cases {
				in := decoder.Decode(insts.Encode(&insts.Instruction{
					Category: insts.CategoryBranch, Op: c.op, Rs1: 1, Rs2: 2, Imm: c.imm,
				}))
				Expect(in.Op).To(Equal(c.op))
				Expect(in.Imm).To(Equal(c.imm))
			}
		})
	})

	Describe("JAL / JALR", func() {
		It("decodes JAL with a nonzero Rd", func() {
			in := decoder.Decode(insts.Encode(&insts.Instruction{
				Category: insts.CategoryJAL, Op: insts.OpJAL, Rd: 1, Imm: 12,
			}))
			Expect(in.Op).To(Equal(insts.OpJAL))
		})

		It("decodes JAL with Rd==0 as the J alias", func() {
			in := decoder.Decode(insts.Encode(&insts.Instruction{
				Category: insts.CategoryJAL, Op: insts.OpJAL, Rd: 0, Imm: 8,
			}))
			Expect(in.Op).To(Equal(insts.OpJ))
		})

		It("decodes JALR with a nonzero destination", func() {
			in := decoder.Decode(insts.Encode(&insts.Instruction{
				Category: insts.CategoryJALR, Op: insts.OpJALR, Rd: 2, Rs1: 3, Imm: 0,
			}))
			Expect(in.Op).To(Equal(insts.OpJALR))
		})

		It("decodes Rd=0,Rs1=1,Imm=0 JALR as the RET alias", func() {
			in := decoder.Decode(insts.Encode(&insts.Instruction{
				Category: insts.CategoryJALR, Op: insts.OpJALR, Rd: 0, Rs1: 1, Imm: 0,
			}))
			Expect(in.Op).To(Equal(insts.OpRET))
		})
	})

	It("tags an unrecognized opcode as Other/Error without panicking", func() {
		in := decoder.Decode(0x7F)
		Expect(in.Category).To(Equal(insts.CategoryOther))
		Expect(in.Op).To(Equal(insts.OpError))
	})

	DescribeTable("round trip: decode(encode(x)) reproduces x for every non-error category",
		func(in *insts.Instruction) {
			word := insts.Encode(in)
			decoded := decoder.Decode(word)
			Expect(decoded.Op).To(Equal(in.Op))
			Expect(decoded.Rd).To(Equal(in.Rd))
			Expect(decoded.Rs1).To(Equal(in.Rs1))
			Expect(decoded.Rs2).To(Equal(in.Rs2))
			Expect(decoded.Imm).To(Equal(in.Imm))
		},
		Entry("ADD", &insts.Instruction{Category: insts.CategoryR, Op: insts.OpADD, Rd: 5, Rs1: 6, Rs2: 7}),
		Entry("SUB", &insts.Instruction{Category: insts.CategoryR, Op: insts.OpSUB, Rd: 5, Rs1: 6, Rs2: 7}),
		Entry("ADDI", &insts.Instruction{Category: insts.CategoryI, Op: insts.OpADDI, Rd: 1, Rs1: 2, Imm: -100}),
		Entry("LW", &insts.Instruction{Category: insts.CategoryLoad, Op: insts.OpLW, Rd: 1, Rs1: 2, Imm: 40}),
		Entry("SW", &insts.Instruction{Category: insts.CategoryStore, Op: insts.OpSW, Rs1: 2, Rs2: 1, Imm: -40}),
		Entry("BEQ", &insts.Instruction{Category: insts.CategoryBranch, Op: insts.OpBEQ, Rs1: 1, Rs2: 2, Imm: 8}),
		Entry("JAL", &insts.Instruction{Category: insts.CategoryJAL, Op: insts.OpJAL, Rd: 1, Imm: 12}),
		Entry("JALR", &insts.Instruction{Category: insts.CategoryJALR, Op: insts.OpJALR, Rd: 1, Rs1: 2, Imm: 0}),
	)
})
