package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"restaurant_id",
			"table_id",
			"customer_name",
			"customer_phone",
			"customer_email",
			"reservation_date",
			"start_time",
			"end_time",
			"guest_count",
			"status",
			"booking_source",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"restaurant_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"table_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"customer_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"customer_phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{7,14}$`,
			},

			"customer_email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			"reservation_date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
			},

			"guest_count": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  50,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"CONFIRMED",
					"CANCELLED",
					"COMPLETED",
					"NO_SHOW",
				},
			},

			"booking_source": bson.M{
				"bsonType": "string",
				"enum": []string{
					"ONLINE",
					"PHONE",
					"WALK_IN",
					"ADMIN",
				},
			},

			"special_requests": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"cancellation_reason": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"cancelled_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
