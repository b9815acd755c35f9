package insights

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func purchase(name string, price int64, category string, date time.Time) Purchase {
	return Purchase{Name: name, Price: decimal.NewFromInt(price), Category: category, Date: date}
}

var _ = Describe("Answer", func() {
	var (
		history  []Purchase
		receipts int
		now      time.Time
		question string
		answer   string
	)

	BeforeEach(func() {
		now = day(2025, time.June, 15)
		receipts = 4
		history = []Purchase{
			purchase("Bread", 150, "food", day(2025, time.May, 3)),
			purchase("Milk", 1100, "food", day(2025, time.May, 20)),
			purchase("Shirt", 2500, "clothes", day(2025, time.May, 20)),
			purchase("Cheese", 700, "food", day(2024, time.May, 9)),
			purchase("Apples", 300, "food", day(2025, time.March, 5)),
			purchase("Apples", 300, "food", day(2025, time.March, 5)),
			purchase("Delivery", 200, "other", day(2025, time.March, 5)),
			purchase("Tira", 10, "other", day(2025, time.March, 5)),
			purchase("Soap", 90, "other", day(2025, time.March, 5)),
		}
	})

	JustBeforeEach(func() {
		answer = Answer(question, receipts, history, now)
	})

	When("the history is empty", func() {
		BeforeEach(func() {
			receipts = 0
			history = nil
			question = "How much did I spend on food in May 2025?"
		})

		It("should say there are no receipts", func() {
			Expect(answer).To(Equal("No receipts found."))
		})
	})

	When("no stored receipt has dated purchases", func() {
		BeforeEach(func() {
			receipts = 2
			history = nil
		})

		It("should answer category questions from the empty history", func() {
			question = "How much did I spend on food in May 2025?"
			Expect(Answer(question, receipts, history, now)).To(Equal("No food purchases found for May 2025."))
		})

		It("should answer date questions from the empty history", func() {
			question = "What did I buy on 2025-03-05?"
			Expect(Answer(question, receipts, history, now)).To(Equal("No items found for 2025-03-05."))
		})
	})

	Describe("category questions", func() {
		DescribeTable("sums matching purchases",
			func(q, expected string) {
				Expect(Answer(q, receipts, history, now)).To(Equal(expected))
			},
			Entry("month and year", "How much did I spend on food in May 2025?",
				"You spent a total of 1.250 L on food in May 2025."),
			Entry("last month name", "How much did I spend on food last may?",
				"You spent a total of 700 L on food in May 2024."),
			Entry("this month name", "how much did i spend on food this may",
				"You spent a total of 1.250 L on food in May 2025."),
			Entry("bare month means this year", "How much did I spend on clothes in May?",
				"You spent a total of 2.500 L on clothes in May 2025."),
			Entry("albanian month", "How much did I spend on food in maj 2024?",
				"You spent a total of 700 L on food in May 2024."),
			Entry("albanian category", "How much did I spend on ushqime in March 2025?",
				"You spent a total of 600 L on food in March 2025."),
			Entry("whole year", "How much did I spend on food in 2024?",
				"You spent a total of 700 L on food in 2024."),
			Entry("last year", "How much did I spend on food last year?",
				"You spent a total of 700 L on food in 2024."),
			Entry("all time", "How much did I spend on food?",
				"You spent a total of 2.550 L on food."),
		)

		DescribeTable("reports missing purchases",
			func(q, expected string) {
				Expect(Answer(q, receipts, history, now)).To(Equal(expected))
			},
			Entry("empty month", "How much did I spend on food in April 2025?",
				"No food purchases found for April 2025."),
			Entry("unknown category", "How much did I spend on toys?",
				"No toys purchases found."),
		)
	})

	Describe("date questions", func() {
		When("items were bought that day", func() {
			BeforeEach(func() {
				question = "What did I buy on 2025-03-05?"
			})

			It("should list distinct items without fees", func() {
				Expect(answer).To(Equal("On 2025-03-05, you spent a total of 390 L.\n\nItems purchased:\n- Apples\n- Soap"))
			})
		})

		When("the date is written day first", func() {
			BeforeEach(func() {
				question = "What did I buy on 20.05.2025?"
			})

			It("should find the items", func() {
				Expect(answer).To(ContainSubstring("On 2025-05-20, you spent a total of 3.600 L."))
				Expect(answer).To(ContainSubstring("- Milk"))
				Expect(answer).To(ContainSubstring("- Shirt"))
			})
		})

		When("nothing was bought that day", func() {
			BeforeEach(func() {
				question = "What did I buy on 2025-01-01?"
			})

			It("should say so", func() {
				Expect(answer).To(Equal("No items found for 2025-01-01."))
			})
		})
	})

	When("the question is not understood", func() {
		BeforeEach(func() {
			question = "Hello there"
		})

		It("should explain what can be asked", func() {
			Expect(answer).To(HavePrefix("Sorry, I can answer questions like"))
		})
	})
})
